package db

import (
	"context"
	"fmt"
	"time"

	"issuebridge/internal/env"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Ctx = context.Background()
var RDB *redis.Client
var Client *mongo.Client

var AuditEvents *mongo.Collection
var Operators *mongo.Collection

const connectTimeout = 10 * time.Second

func InitDB(deployment string) error {
	ctx, cancel := context.WithTimeout(Ctx, connectTimeout)
	defer cancel()

	var err error
	Client, err = mongo.Connect(
		ctx,
		options.Client().ApplyURI(env.MONGO_URI),
	)
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}

	if err = Client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}

	// loading collections
	database := DatabaseName(env.MONGO_DATABASE, deployment)
	AuditEvents = GetCollection(database, "audit_events", Client)
	Operators = GetCollection(database, "operators", Client)

	return nil
}

// DatabaseName suffixes the configured database with the deployment profile
// so test runs never share collections with prod.
func DatabaseName(base, deployment string) string {
	if deployment == "" || deployment == "prod" {
		return base
	}
	return base + "_" + deployment
}

func GetCollection(database string, collectionName string, client *mongo.Client) *mongo.Collection {
	return client.Database(database).Collection(collectionName)
}

func InitCache() error {
	RDB = redis.NewClient(&redis.Options{
		Addr: env.REDIS_ADDR,
		DB:   env.REDIS_DB,
	})

	if err := RDB.Ping(Ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	return nil
}

// Close releases the mongo and redis clients.
func Close() {
	if Client != nil {
		_ = Client.Disconnect(Ctx)
	}
	if RDB != nil {
		_ = RDB.Close()
	}
}
