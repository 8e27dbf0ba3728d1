package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tokomaterial/checkout"
	"tokomaterial/models"
)

var (
	ErrEmptyCart       = errors.New("cannot create an order from an empty cart")
	ErrInvalidQuantity = errors.New("order line quantity must be at least 1")
)

// Factory turns a validated cart plus a shipping selection into a persisted
// order. It trusts the validator's prices and re-checks nothing against the
// catalog; stock stays untouched until payment confirms.
type Factory struct {
	store Store
}

func NewFactory(store Store) *Factory {
	return &Factory{store: store}
}

func (f *Factory) Create(ctx context.Context, userID primitive.ObjectID, lines []checkout.PricedLine, address models.Address, option models.ShippingOption, notes string) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	orderLines := make([]models.OrderLine, 0, len(lines))
	var subtotal int64
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		orderLines = append(orderLines, models.OrderLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
		})
		subtotal += line.UnitPrice * int64(line.Quantity)
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:              primitive.NewObjectID(),
		OrderNumber:     uuid.NewString(),
		UserID:          userID,
		Lines:           orderLines,
		ShippingAddress: address,
		ShippingOption:  option,
		Subtotal:        subtotal,
		ShippingCost:    option.Cost,
		Total:           subtotal + option.Cost,
		Status:          models.StatusPendingPayment,
		StatusHistory: []models.StatusEntry{{
			Status:    models.StatusPendingPayment,
			Timestamp: now,
			Note:      "order created",
		}},
		Notes:     notes,
		CreatedAt: now,
	}

	if err := f.store.Insert(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
