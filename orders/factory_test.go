package orders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tokomaterial/checkout"
	"tokomaterial/models"
)

type memStore struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]*models.Order
}

func newMemStore() *memStore {
	return &memStore{orders: make(map[primitive.ObjectID]*models.Order)}
}

func (s *memStore) Insert(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *order
	s.orders[order.ID] = &cp
	return nil
}

func (s *memStore) ByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (s *memStore) ByOrderNumber(_ context.Context, orderNumber string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.OrderNumber == orderNumber {
			cp := *order
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) ByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *memStore) SetPaymentRef(_ context.Context, id primitive.ObjectID, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.orders[id]; ok {
		order.PaymentRef = ref
	}
	return nil
}

func (s *memStore) ApplyTransition(_ context.Context, id primitive.ObjectID, from, to models.Status, note string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	order.StatusHistory = append(order.StatusHistory, models.StatusEntry{
		Status: to, Timestamp: time.Now().UTC(), Note: note,
	})
	return true, nil
}

func validated(price int64, qty int) checkout.PricedLine {
	return checkout.PricedLine{
		ProductID:   primitive.NewObjectID(),
		ProductName: "Semen 50kg",
		UnitPrice:   price,
		Quantity:    qty,
	}
}

func testOption() models.ShippingOption {
	return models.ShippingOption{
		CourierCode: "toko-armada", ServiceName: "Armada Toko (zona 1)",
		Cost: 50_000, EtaDays: 1, IsLocalFleet: true,
	}
}

func TestCreateOrderComputesTotals(t *testing.T) {
	store := newMemStore()
	factory := NewFactory(store)
	userID := primitive.NewObjectID()

	lines := []checkout.PricedLine{validated(65_000, 10), validated(1_200_000, 2)}
	order, err := factory.Create(context.Background(), userID, lines,
		models.Address{Recipient: "Pak Budi", DestinationID: "501"}, testOption(), "antar pagi")
	require.NoError(t, err)

	wantSubtotal := int64(10*65_000 + 2*1_200_000)
	assert.Equal(t, wantSubtotal, order.Subtotal)
	assert.Equal(t, int64(50_000), order.ShippingCost)
	assert.Equal(t, wantSubtotal+50_000, order.Total)
	assert.Equal(t, models.StatusPendingPayment, order.Status)
	assert.NotEmpty(t, order.OrderNumber)

	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, models.StatusPendingPayment, order.StatusHistory[0].Status)

	stored, err := store.ByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Total, stored.Total)
	assert.Len(t, stored.Lines, 2)
}

func TestCreateOrderFreezesLineDetails(t *testing.T) {
	store := newMemStore()
	factory := NewFactory(store)

	line := validated(65_000, 3)
	order, err := factory.Create(context.Background(), primitive.NewObjectID(),
		[]checkout.PricedLine{line}, models.Address{}, testOption(), "")
	require.NoError(t, err)

	require.Len(t, order.Lines, 1)
	assert.Equal(t, line.ProductID, order.Lines[0].ProductID)
	assert.Equal(t, line.ProductName, order.Lines[0].ProductName)
	assert.Equal(t, line.UnitPrice, order.Lines[0].UnitPrice)
	assert.Equal(t, line.Quantity, order.Lines[0].Quantity)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	store := newMemStore()
	factory := NewFactory(store)

	_, err := factory.Create(context.Background(), primitive.NewObjectID(),
		nil, models.Address{}, testOption(), "")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, store.orders, "nothing may be persisted for an empty cart")
}

func TestCreateOrderRejectsZeroQuantity(t *testing.T) {
	store := newMemStore()
	factory := NewFactory(store)

	bad := validated(10_000, 0)
	_, err := factory.Create(context.Background(), primitive.NewObjectID(),
		[]checkout.PricedLine{bad}, models.Address{}, testOption(), "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, store.orders)
}
