package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tokomaterial/models"
)

// MongoCatalog reads products from the catalog collection and commits stock
// decrements once payment is confirmed.
type MongoCatalog struct {
	products *mongo.Collection
}

func NewMongoCatalog(products *mongo.Collection) *MongoCatalog {
	return &MongoCatalog{products: products}
}

func (c *MongoCatalog) Product(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := c.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CommitStock decrements stock for the given order lines. Runs only when an
// order first reaches paid. The stock filter keeps counts from going
// negative when the optimistic validation race was lost.
func (c *MongoCatalog) CommitStock(ctx context.Context, lines []models.OrderLine) error {
	for _, line := range lines {
		_, err := c.products.UpdateOne(ctx,
			bson.M{"_id": line.ProductID, "stock": bson.M{"$gte": line.Quantity}},
			bson.M{"$inc": bson.M{"stock": -line.Quantity}},
		)
		if err != nil {
			return fmt.Errorf("commit stock for %s: %w", line.ProductID.Hex(), err)
		}
	}
	return nil
}
