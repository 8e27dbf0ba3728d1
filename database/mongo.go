package database

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tokomaterial/logging"
)

var Client *mongo.Client
var DB *mongo.Database

func ConnectMongo() error {
	uri := os.Getenv("MONGO_URI")
	dbName := os.Getenv("DB_NAME")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	Client = client
	DB = client.Database(dbName)

	logging.New("database").Info("connected to MongoDB", "db", dbName)
	return nil
}

var ProductCollection *mongo.Collection
var OrderCollection *mongo.Collection
var CartCollection *mongo.Collection

func InitCollections() {
	ProductCollection = DB.Collection("products")
	OrderCollection = DB.Collection("orders")
	CartCollection = DB.Collection("carts")
}
