package facility

import (
	"net/http"

	"github.com/gyaan-ai/levelup-sub000/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// CreateFacility godoc
// @Summary      Create facility
// @Description  Creates a training facility. Admin only.
// @Tags         facilities
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateFacilityRequest  true  "Facility data"
// @Success      201      {object}  Facility
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/facilities [post]
func (h *Handler) CreateFacility(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := h.repo.Create(c.Request.Context(), actor.OrgID, req.Name, req.Location)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create facility"})
		return
	}

	c.JSON(http.StatusCreated, f)
}

// ListFacilities godoc
// @Summary      List facilities
// @Description  Lists training facilities in the caller's organization.
// @Tags         facilities
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Facility
// @Failure      500  {object}  gin.H
// @Router       /facilities [get]
func (h *Handler) ListFacilities(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	facilities, err := h.repo.ListByOrg(c.Request.Context(), actor.OrgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch facilities"})
		return
	}

	c.JSON(http.StatusOK, facilities)
}
