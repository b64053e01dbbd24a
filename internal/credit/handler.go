package credit

import (
	"net/http"

	"github.com/gyaan-ai/levelup-sub000/internal/auth"
	"github.com/gyaan-ai/levelup-sub000/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// ListMyCredits godoc
// @Summary      List my credits
// @Description  Returns all credits issued to the authenticated parent.
// @Tags         credits
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Credit
// @Failure      500  {object}  gin.H
// @Router       /credits [get]
func (h *Handler) ListMyCredits(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	credits, err := h.repo.ListByParent(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch credits"})
		return
	}

	c.JSON(http.StatusOK, credits)
}

// GetMyBalance godoc
// @Summary      Get credit balance
// @Tags         credits
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  BalanceResponse
// @Failure      500  {object}  gin.H
// @Router       /credits/balance [get]
func (h *Handler) GetMyBalance(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	balance, err := h.repo.Balance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch balance"})
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{ParentID: userID, BalanceCents: balance})
}

// GrantCredit godoc
// @Summary      Grant a credit
// @Description  Issues a manual credit to a parent. Admin only.
// @Tags         credits
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      GrantCreditRequest  true  "Grant data"
// @Success      201      {object}  Credit
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/credits [post]
func (h *Handler) GrantCredit(c *gin.Context) {
	var req GrantCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cr, err := h.repo.Create(c.Request.Context(), req.ParentID, req.AmountCents, SourceAdminGrant, nil, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant credit"})
		return
	}

	metrics.RecordCreditIssued(cr.AmountCents)
	c.JSON(http.StatusCreated, cr)
}
