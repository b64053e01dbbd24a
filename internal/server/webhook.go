package server

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gyaan-ai/levelup-sub000/internal/logger"
	"github.com/gyaan-ai/levelup-sub000/internal/payment"

	"github.com/gin-gonic/gin"
)

// WebhookSignatureMiddleware authenticates payment webhooks by their
// Stripe-Signature header. The webhook endpoint sits outside the JWT-guarded
// groups, so this check is the only thing standing between an anonymous
// caller and the pending_payment to scheduled transition. An empty secret
// means the endpoint is not configured and every delivery is refused.
func WebhookSignatureMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "webhook endpoint not configured"})
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
			c.Abort()
			return
		}
		// Binding downstream re-reads the body.
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		header := c.GetHeader("Stripe-Signature")
		if err := payment.VerifySignature(body, header, secret, time.Now()); err != nil {
			logger.Info("Rejected payment webhook", "reason", err.Error(), "client_ip", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}
