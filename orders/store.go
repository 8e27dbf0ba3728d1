package orders

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tokomaterial/models"
)

var ErrNotFound = errors.New("order not found")

// Store is the order persistence surface. ApplyTransition is a conditional
// check-then-set against the currently persisted status; it is what makes
// concurrent and replayed webhook deliveries safe without request locking.
type Store interface {
	Insert(ctx context.Context, order *models.Order) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	SetPaymentRef(ctx context.Context, id primitive.ObjectID, ref string) error
	ApplyTransition(ctx context.Context, id primitive.ObjectID, from, to models.Status, note string) (bool, error)
}

type MongoStore struct {
	orders *mongo.Collection
}

func NewMongoStore(orders *mongo.Collection) *MongoStore {
	return &MongoStore{orders: orders}
}

// Insert writes the whole order as a single document, so creation is atomic:
// lines, totals, address and initial status land together or not at all.
func (s *MongoStore) Insert(ctx context.Context, order *models.Order) error {
	_, err := s.orders.InsertOne(ctx, order)
	return err
}

func (s *MongoStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) ByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return s.findOne(ctx, bson.M{"orderNumber": orderNumber})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	var order models.Order
	err := s.orders.FindOne(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *MongoStore) ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cursor, err := s.orders.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *MongoStore) SetPaymentRef(ctx context.Context, id primitive.ObjectID, ref string) error {
	_, err := s.orders.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"paymentRef": ref}},
	)
	return err
}

// ApplyTransition flips the status only if the persisted status still equals
// from, appending one history entry in the same write. Returns false when
// another delivery won the race or the notification was stale.
func (s *MongoStore) ApplyTransition(ctx context.Context, id primitive.ObjectID, from, to models.Status, note string) (bool, error) {
	entry := models.StatusEntry{Status: to, Timestamp: time.Now().UTC(), Note: note}
	res, err := s.orders.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{
			"$set":  bson.M{"status": to},
			"$push": bson.M{"statusHistory": entry},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
