package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tokomaterial/logging"
	"tokomaterial/orders"
	"tokomaterial/payment"
)

type PaymentController struct {
	webhook *payment.Webhook
}

func NewPaymentController(webhook *payment.Webhook) *PaymentController {
	return &PaymentController{webhook: webhook}
}

// Notification receives gateway callbacks. Per the gateway contract it must
// answer 2xx once the payload is durably processed or safely deduplicated,
// otherwise the gateway keeps retrying. Illegal transitions are therefore
// acknowledged-but-ignored, not failed.
func (ctl *PaymentController) Notification(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable body"})
		return
	}
	signature := c.GetHeader("X-Callback-Signature")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	outcome, err := ctl.webhook.HandleNotification(ctx, rawBody, signature)
	if err != nil {
		var illegal *orders.IllegalTransitionError
		switch {
		case errors.Is(err, payment.ErrInvalidSignature):
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid signature"})
		case errors.Is(err, payment.ErrUnrecognizedPayload):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unrecognized payload"})
		case errors.Is(err, orders.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.As(err, &illegal):
			c.JSON(http.StatusOK, gin.H{"message": "Notification ignored"})
		default:
			logging.From(c).Error("notification processing failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Processing failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification processed", "data": outcome})
}
