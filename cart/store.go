package cart

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

type cartDoc struct {
	UserID    primitive.ObjectID `bson:"userId"`
	Lines     []models.CartLine  `bson:"lines"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// MongoStore keeps one cart document per user.
type MongoStore struct {
	carts *mongo.Collection
}

func NewMongoStore(carts *mongo.Collection) *MongoStore {
	return &MongoStore{carts: carts}
}

// Lines returns the user's server-held cart, empty when none exists.
func (s *MongoStore) Lines(ctx context.Context, userID primitive.ObjectID) ([]models.CartLine, error) {
	var doc cartDoc
	err := s.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Lines, nil
}

// Replace upserts the whole cart in one write.
func (s *MongoStore) Replace(ctx context.Context, userID primitive.ObjectID, lines []models.CartLine) error {
	doc := cartDoc{UserID: userID, Lines: lines, UpdatedAt: time.Now().UTC()}
	_, err := s.carts.ReplaceOne(ctx, bson.M{"userId": userID}, doc, options.Replace().SetUpsert(true))
	return err
}
