// Package mongodb implements the metadata store ports on MongoDB: one
// collection per artifact kind plus users, predictions, cleanup logs and
// sweep leases.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"automl-platform-service/internal/config"
	"automl-platform-service/internal/core/domain"
)

type Client struct {
	client       *mongo.Client
	db           *mongo.Database
	queryTimeout time.Duration
}

func NewClient(ctx context.Context, cfg *config.MongoConfig) (*Client, error) {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	queryTimeout := cfg.QueryTimeout
	if queryTimeout <= 0 {
		queryTimeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Client{
		client:       client,
		db:           client.Database(cfg.Database),
		queryTimeout: queryTimeout,
	}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// EnsureIndexes creates the query indexes every repository relies on.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	ownerCreated := mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
	}
	for _, kind := range domain.Kinds {
		if _, err := c.Collection(kind.Collection()).Indexes().CreateOne(ctx, ownerCreated); err != nil {
			return fmt.Errorf("index %s: %w", kind.Collection(), err)
		}
	}
	if _, err := c.Collection("predictions").Indexes().CreateOne(ctx, ownerCreated); err != nil {
		return fmt.Errorf("index predictions: %w", err)
	}
	if _, err := c.Collection("cleanup_logs").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "started_at", Value: -1}},
	}); err != nil {
		return fmt.Errorf("index cleanup_logs: %w", err)
	}
	return nil
}

const maxAttempts = 3

// withRetry retries transient store failures a bounded number of times
// before surfacing them as ErrStorage. Domain errors pass through.
func withRetry(ctx context.Context, op func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = op(ctx)
		if err == nil || !transient(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", domain.ErrStorage, ctx.Err())
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrStorage, err)
}

func transient(err error) bool {
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	return errors.Is(err, mongo.ErrClientDisconnected)
}

// wrapError translates driver errors into the domain taxonomy.
func wrapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrStorage):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
}
