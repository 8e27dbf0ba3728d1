package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tokomaterial/checkout"
	"tokomaterial/logging"
	"tokomaterial/models"
	"tokomaterial/orders"
	"tokomaterial/payment"
)

type OrderController struct {
	validator *checkout.Validator
	factory   *orders.Factory
	store     orders.Store
	gateway   *payment.Gateway
}

func NewOrderController(validator *checkout.Validator, factory *orders.Factory, store orders.Store, gateway *payment.Gateway) *OrderController {
	return &OrderController{validator: validator, factory: factory, store: store, gateway: gateway}
}

// Create runs the full checkout pipeline tail: re-validate the submitted
// lines against the live catalog, then freeze them into an order. Client
// prices are never trusted; blocking problems abort with the detail list.
func (ctl *OrderController) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var body struct {
		Lines          []models.CartLine     `json:"lines" binding:"required,min=1"`
		Address        models.Address        `json:"address" binding:"required"`
		ShippingOption models.ShippingOption `json:"shippingOption" binding:"required"`
		Notes          string                `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := ctl.validator.Validate(ctx, body.Lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Validation failed"})
		return
	}
	if !result.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is no longer valid", "problems": result.Problems})
		return
	}

	order, err := ctl.factory.Create(ctx, userID, result.Lines, body.Address, body.ShippingOption, body.Notes)
	if err != nil {
		if errors.Is(err, orders.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}
		if errors.Is(err, orders.ErrInvalidQuantity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line quantity"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order created", "data": order})
}

func (ctl *OrderController) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := ctl.store.ByUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": list})
}

func (ctl *OrderController) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	order, ok := ctl.ownedOrder(c, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": order})
}

// Cancel lets a customer abandon an order that has not been paid yet. The
// same state machine the webhook uses decides legality.
func (ctl *OrderController) Cancel(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	order, ok := ctl.ownedOrder(c, userID)
	if !ok {
		return
	}

	if !orders.CanTransition(order.Status, models.StatusCancelled) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order can no longer be cancelled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	applied, err := ctl.store.ApplyTransition(ctx, order.ID, order.Status, models.StatusCancelled, "cancelled by customer")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "Order status changed, try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
}

// PaymentToken asks the gateway for a payment session for one order.
func (ctl *OrderController) PaymentToken(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	order, ok := ctl.ownedOrder(c, userID)
	if !ok {
		return
	}

	if order.Status != models.StatusPendingPayment {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order is not awaiting payment"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	token, err := ctl.gateway.RequestToken(ctx, order)
	if err != nil {
		if errors.Is(err, payment.ErrGatewayUnavailable) {
			logging.From(c).Warn("gateway token request failed", "order", order.OrderNumber, "err", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway unavailable, try again"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment request rejected"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment session created", "data": token})
}

func (ctl *OrderController) ownedOrder(c *gin.Context, userID primitive.ObjectID) (*models.Order, bool) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid orderId"})
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	order, err := ctl.store.ByID(ctx, orderID)
	if errors.Is(err, orders.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return nil, false
	}
	// An order belongs to the user who created it; everyone else sees 404.
	if order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}
	return order, true
}
