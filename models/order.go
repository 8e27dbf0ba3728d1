package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusPaid           Status = "paid"
	StatusProcessing     Status = "processing"
	StatusShipped        Status = "shipped"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
	StatusExpired        Status = "expired"
	StatusRefunded       Status = "refunded"
)

// OrderLine is a frozen copy of a cart line at validation time. It is
// never re-derived from the live catalog after the order exists.
type OrderLine struct {
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	ProductName string             `bson:"productName" json:"productName"`
	UnitPrice   int64              `bson:"unitPrice" json:"unitPrice"`
	Quantity    int                `bson:"quantity" json:"quantity"`
}

// StatusEntry is append-only; history is never rewritten.
type StatusEntry struct {
	Status    Status    `bson:"status" json:"status"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Note      string    `bson:"note,omitempty" json:"note,omitempty"`
}

type Address struct {
	Recipient     string `bson:"recipient" json:"recipient" binding:"required"`
	Phone         string `bson:"phone" json:"phone" binding:"required"`
	Street        string `bson:"street" json:"street" binding:"required"`
	DestinationID string `bson:"destinationId" json:"destinationId" binding:"required"`
	PostalCode    string `bson:"postalCode" json:"postalCode"`
}

// Order is created once and deleted never. Only status, statusHistory and
// paymentRef mutate after creation; total stays equal to
// subtotal + shippingCost for the life of the record.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber     string             `bson:"orderNumber" json:"orderNumber"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Lines           []OrderLine        `bson:"lines" json:"lines"`
	ShippingAddress Address            `bson:"shippingAddress" json:"shippingAddress"`
	ShippingOption  ShippingOption     `bson:"shippingOption" json:"shippingOption"`
	Subtotal        int64              `bson:"subtotal" json:"subtotal"`
	ShippingCost    int64              `bson:"shippingCost" json:"shippingCost"`
	Total           int64              `bson:"total" json:"total"`
	Status          Status             `bson:"status" json:"status"`
	StatusHistory   []StatusEntry      `bson:"statusHistory" json:"statusHistory"`
	PaymentRef      string             `bson:"paymentRef,omitempty" json:"paymentRef,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
