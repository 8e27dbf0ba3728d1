package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the catalog read model used by checkout validation.
// Prices are whole rupiah, never fractional.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name" binding:"required"`
	Description string             `bson:"description" json:"description"`
	Price       int64              `bson:"price" json:"price" binding:"required"`
	Stock       int                `bson:"stock" json:"stock"`
	Unit        string             `bson:"unit" json:"unit"`
	WeightKg    float64            `bson:"weightKg" json:"weightKg"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
