package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is one product entry in a cart. A cart never holds two lines
// with the same productId.
type CartLine struct {
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	ProductName string             `bson:"productName" json:"productName"`
	UnitPrice   int64              `bson:"unitPrice" json:"unitPrice"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	AddedAt     time.Time          `bson:"addedAt" json:"addedAt"`
}

type CartTotals struct {
	ItemCount int   `json:"itemCount"`
	Subtotal  int64 `json:"subtotal"`
}
