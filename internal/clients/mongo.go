// Package clients provides shared external-service clients.
package clients

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jaeaeich/nbrun/internal/config"
	"github.com/jaeaeich/nbrun/internal/logger"
)

// DB is the global mongo client.
var DB *mongo.Client

// NewMongoClient creates a new mongo client.
func NewMongoClient(ctx context.Context) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(fmt.Sprintf("mongodb://%s:%d",
		config.Cfg.Mongo.Host,
		config.Cfg.Mongo.Port,
	))
	if config.Cfg.Mongo.Username != "" {
		opts = opts.SetAuth(options.Credential{
			Username: config.Cfg.Mongo.Username,
			Password: config.Cfg.Mongo.Password,
		})
	}
	logger.L.Debug("connecting to mongo", "uri", opts.GetURI())
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return client, nil
}
