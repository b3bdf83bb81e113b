package db

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const database = "voyago"

// Collections bundles the handles every store needs. Built once in main and
// passed down explicitly; no package-level globals.
type Collections struct {
	Trips         *mongo.Collection
	Plans         *mongo.Collection
	Users         *mongo.Collection
	Followings    *mongo.Collection
	UserDevice    *mongo.Collection
	Notifications *mongo.Collection
}

func Connect(ctx context.Context) (*mongo.Client, error) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

func NewCollections(client *mongo.Client) *Collections {
	d := client.Database(database)
	return &Collections{
		Trips:         d.Collection("trips"),
		Plans:         d.Collection("plans"),
		Users:         d.Collection("users"),
		Followings:    d.Collection("followings"),
		UserDevice:    d.Collection("user_device"),
		Notifications: d.Collection("notifications"),
	}
}
