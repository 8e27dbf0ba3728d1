package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tokomaterial/cart"
	"tokomaterial/models"
)

type CartController struct {
	store *cart.MongoStore
}

func NewCartController(store *cart.MongoStore) *CartController {
	return &CartController{store: store}
}

// Merge folds the guest cart a client carried before login into the user's
// server-held cart and persists the result.
func (ctl *CartController) Merge(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var body struct {
		GuestLines []models.CartLine `json:"guestLines"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	serverLines, err := ctl.store.Lines(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	merged := cart.Merge(serverLines, body.GuestLines)
	if err := ctl.store.Replace(ctx, userID, merged); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart merged",
		"data": gin.H{
			"lines":  merged,
			"totals": cart.Totals(merged),
		},
	})
}
