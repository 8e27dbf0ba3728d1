package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tokomaterial/checkout"
	"tokomaterial/models"
)

type CheckoutController struct {
	validator *checkout.Validator
}

func NewCheckoutController(validator *checkout.Validator) *CheckoutController {
	return &CheckoutController{validator: validator}
}

// Validate re-prices and re-checks stock for the submitted cart lines.
// price_changed problems come back alongside valid:true with corrected
// prices; the client decides whether to re-confirm with the shopper.
func (ctl *CheckoutController) Validate(c *gin.Context) {
	var body struct {
		Lines []models.CartLine `json:"lines" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := ctl.validator.Validate(ctx, body.Lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Validation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Validation complete", "data": result})
}
