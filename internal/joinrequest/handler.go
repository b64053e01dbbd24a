package joinrequest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gyaan-ai/levelup-sub000/internal/auth"
	"github.com/gyaan-ai/levelup-sub000/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// SubmitJoinRequest godoc
// @Summary      Request to join an open partner session
// @Tags         join-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int            true  "Session ID"
// @Param        request    body      SubmitRequest  true  "Requesting athlete"
// @Success      201        {object}  JoinRequest
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /sessions/{sessionID}/join-requests [post]
func (h *Handler) SubmitJoinRequest(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Submit(c.Request.Context(), actor, sessionID, req)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case errors.Is(err, ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only parents can request to join a session"})
		case errors.Is(err, ErrNotOpenPartner), errors.Is(err, ErrOwnSession), errors.Is(err, ErrAthleteNotOwned):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, session.ErrSessionFull), errors.Is(err, session.ErrSessionNotOpen):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ErrDuplicateRequest):
			c.JSON(http.StatusConflict, gin.H{"error": "You already have a pending request for this session"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit join request"})
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListSessionJoinRequests godoc
// @Summary      List join requests for a session
// @Description  Visible to the hosting parent and admins.
// @Tags         join-requests
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {array}   JoinRequest
// @Failure      403        {object}  gin.H
// @Router       /sessions/{sessionID}/join-requests [get]
func (h *Handler) ListSessionJoinRequests(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	requests, err := h.service.ListForSession(c.Request.Context(), actor, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case errors.Is(err, ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to view these requests"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch join requests"})
		}
		return
	}

	c.JSON(http.StatusOK, requests)
}

// ListMyJoinRequests godoc
// @Summary      List my join requests
// @Tags         join-requests
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   JoinRequest
// @Failure      500  {object}  gin.H
// @Router       /join-requests [get]
func (h *Handler) ListMyJoinRequests(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	requests, err := h.service.ListMine(c.Request.Context(), actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch join requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// ApproveJoinRequest godoc
// @Summary      Approve a join request
// @Description  Seats the requesting athlete if the session still has room.
// @Tags         join-requests
// @Security     BearerAuth
// @Produce      json
// @Param        requestID  path      int  true  "Join request ID"
// @Success      200        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /join-requests/{requestID}/approve [post]
func (h *Handler) ApproveJoinRequest(c *gin.Context) {
	h.resolve(c, h.service.Approve, "Join request approved")
}

// DeclineJoinRequest godoc
// @Summary      Decline a join request
// @Tags         join-requests
// @Security     BearerAuth
// @Produce      json
// @Param        requestID  path      int  true  "Join request ID"
// @Success      200        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /join-requests/{requestID}/decline [post]
func (h *Handler) DeclineJoinRequest(c *gin.Context) {
	h.resolve(c, h.service.Decline, "Join request declined")
}

func (h *Handler) resolve(c *gin.Context, op func(ctx context.Context, actor auth.Actor, id int) error, okMessage string) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	requestID, err := strconv.Atoi(c.Param("requestID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	err = op(c.Request.Context(), actor, requestID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, session.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Join request not found"})
		case errors.Is(err, ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to resolve this request"})
		case errors.Is(err, ErrAlreadyResolved):
			c.JSON(http.StatusConflict, gin.H{"error": "Join request has already been resolved"})
		case errors.Is(err, session.ErrSessionFull):
			c.JSON(http.StatusConflict, gin.H{"error": "That seat has already been taken"})
		case errors.Is(err, session.ErrSessionNotOpen):
			c.JSON(http.StatusConflict, gin.H{"error": "Session is no longer open"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve join request"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": okMessage})
}
