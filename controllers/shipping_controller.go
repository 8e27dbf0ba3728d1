package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tokomaterial/shipping"
)

type ShippingController struct {
	engine *shipping.Engine
}

func NewShippingController(engine *shipping.Engine) *ShippingController {
	return &ShippingController{engine: engine}
}

// Quote prices shipping from the warehouse to a destination. Local fleet
// options lead the list; a warning field marks quotes degraded by a rate
// API outage.
func (ctl *ShippingController) Quote(c *gin.Context) {
	var body struct {
		DestinationID string  `json:"destinationId" binding:"required"`
		WeightKg      float64 `json:"weightKg" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 8*time.Second)
	defer cancel()

	quote, err := ctl.engine.Quote(ctx, body.DestinationID, body.WeightKg)
	if err != nil {
		if errors.Is(err, shipping.ErrUnknownDestination) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Destination not served"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Shipping rates unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quote ready", "data": quote})
}
