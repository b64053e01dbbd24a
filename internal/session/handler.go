package session

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gyaan-ai/levelup-sub000/internal/auth"
	"github.com/gyaan-ai/levelup-sub000/internal/payment"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateSession godoc
// @Summary      Book a training session
// @Description  Creates a session with its initial participants. Partner-invite sessions get a shareable code.
// @Tags         sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateSessionRequest  true  "Booking data"
// @Success      201      {object}  CreateSessionResponse
// @Failure      400      {object}  gin.H
// @Failure      403      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only parents can book sessions"})
		case errors.Is(err, ErrInvalidMode),
			errors.Is(err, ErrNoParticipants),
			errors.Is(err, ErrWrongParticipantCount),
			errors.Is(err, ErrPastSession),
			errors.Is(err, ErrNotACoach),
			errors.Is(err, ErrAthleteNotOwned),
			errors.Is(err, ErrNoFacility):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrCodeExhausted):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not allocate an invite code, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetSession godoc
// @Summary      Get a session
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {object}  Session
// @Failure      404        {object}  gin.H
// @Router       /sessions/{sessionID} [get]
func (h *Handler) GetSession(c *gin.Context) {
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

	sess, err := h.service.Get(c.Request.Context(), actor, sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, sess)
}

// ListMySessions godoc
// @Summary      List my sessions
// @Description  Parents see sessions they host or joined; coaches see sessions assigned to them.
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Session
// @Failure      500  {object}  gin.H
// @Router       /sessions [get]
func (h *Handler) ListMySessions(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessions, err := h.service.ListMine(c.Request.Context(), actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// ListOpenSessions godoc
// @Summary      Browse open partner sessions
// @Description  Lists partner-open sessions in the caller's organization with a free seat.
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Session
// @Failure      500  {object}  gin.H
// @Router       /sessions/open [get]
func (h *Handler) ListOpenSessions(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessions, err := h.service.ListOpen(c.Request.Context(), actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch open sessions"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// CancelSession godoc
// @Summary      Cancel a session
// @Description  Cancels a session. Credit issuance follows the cancellation policy.
// @Tags         sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int                   true  "Session ID"
// @Param        request    body      CancelSessionRequest  false "Cancellation reason"
// @Success      200        {object}  CancelSessionResponse
// @Failure      403        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /sessions/{sessionID}/cancel [post]
func (h *Handler) CancelSession(c *gin.Context) {
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

	var req CancelSessionRequest
	_ = c.ShouldBindJSON(&req)

	resp, err := h.service.Cancel(c.Request.Context(), actor, sessionID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case errors.Is(err, ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to cancel this session"})
		case errors.Is(err, ErrAlreadyCancelled):
			c.JSON(http.StatusConflict, gin.H{"error": "Session is already cancelled"})
		case errors.Is(err, ErrNotCancellable):
			c.JSON(http.StatusConflict, gin.H{"error": "Session can no longer be cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel session"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RescheduleSession godoc
// @Summary      Reschedule a session
// @Description  Moves the session to a new time. No new session row, no price change.
// @Tags         sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int                true  "Session ID"
// @Param        request    body      RescheduleRequest  true  "New time"
// @Success      200        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /sessions/{sessionID}/reschedule [post]
func (h *Handler) RescheduleSession(c *gin.Context) {
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

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.service.Reschedule(c.Request.Context(), actor, sessionID, req.ScheduledAt)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case errors.Is(err, ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to reschedule this session"})
		case errors.Is(err, ErrNotReschedulable):
			c.JSON(http.StatusConflict, gin.H{"error": "Session can no longer be rescheduled"})
		case errors.Is(err, ErrPastSession):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reschedule session"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session rescheduled"})
}

// CompleteSession godoc
// @Summary      Mark a session completed
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /sessions/{sessionID}/complete [post]
func (h *Handler) CompleteSession(c *gin.Context) {
	h.closeOut(c, h.service.Complete, "Session marked completed")
}

// MarkNoShow godoc
// @Summary      Mark a session as a no-show
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /sessions/{sessionID}/no-show [post]
func (h *Handler) MarkNoShow(c *gin.Context) {
	h.closeOut(c, h.service.MarkNoShow, "Session marked as no-show")
}

func (h *Handler) closeOut(c *gin.Context, op func(ctx context.Context, actor auth.Actor, id int) error, okMessage string) {
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

	err = op(c.Request.Context(), actor, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case errors.Is(err, ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to close out this session"})
		case errors.Is(err, ErrNotScheduled):
			c.JSON(http.StatusConflict, gin.H{"error": "Only scheduled sessions can be closed out"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update session"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": okMessage})
}

// ResolveByCode godoc
// @Summary      Look up a session by invite code
// @Description  Case-insensitive lookup within the caller's organization.
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Param        code  path      string  true  "Invite code"
// @Success      200   {object}  Session
// @Failure      404   {object}  gin.H
// @Router       /sessions/code/{code} [get]
func (h *Handler) ResolveByCode(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sess, err := h.service.ResolveByCode(c.Request.Context(), actor, c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No session with that invite code"})
		return
	}

	c.JSON(http.StatusOK, sess)
}

// JoinByCode godoc
// @Summary      Join a partner session by invite code
// @Description  Fills the open seat of a partner-invite session for the caller's youth athlete.
// @Tags         sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        code     path      string             true  "Invite code"
// @Param        request  body      JoinByCodeRequest  true  "Joining athlete"
// @Success      201      {object}  Participant
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Router       /sessions/code/{code}/join [post]
func (h *Handler) JoinByCode(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req JoinByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.service.JoinByCode(c.Request.Context(), actor, c.Param("code"), req.YouthAthleteID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No session with that invite code"})
		case errors.Is(err, ErrSessionFull):
			c.JSON(http.StatusConflict, gin.H{"error": "That seat has already been taken"})
		case errors.Is(err, ErrSessionNotOpen):
			c.JSON(http.StatusConflict, gin.H{"error": "Session is no longer open for joining"})
		case errors.Is(err, ErrOwnSession), errors.Is(err, ErrAthleteNotOwned), errors.Is(err, ErrNotAuthorized):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join session"})
		}
		return
	}

	c.JSON(http.StatusCreated, p)
}

// ConfirmPaymentWebhook godoc
// @Summary      Payment confirmation webhook
// @Description  Marks a session paid. Deliveries must carry a valid Stripe-Signature header. A confirmation for an already-cancelled session is acknowledged but flagged for refund.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature  header    string                         true  "Webhook signature"
// @Param        request           body      payment.ConfirmWebhookRequest  true  "Confirmation payload"
// @Success      200      {object}  gin.H
// @Failure      400      {object}  gin.H
// @Failure      401      {object}  gin.H
// @Router       /webhooks/payment [post]
func (h *Handler) ConfirmPaymentWebhook(c *gin.Context) {
	var req payment.ConfirmWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	err := h.service.ConfirmPayment(c.Request.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, ErrNotPendingPayment) {
			// Acknowledge so the provider stops retrying; the payment has
			// been flagged on our side.
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "confirmed"})
}
