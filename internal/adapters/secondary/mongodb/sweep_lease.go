package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SweepLeaser implements per-scope sweep exclusion with an expiring lease
// document. Acquire upserts conditionally on the existing lease being
// expired: if the document exists and is live, the upsert collides on _id
// and the lease is held elsewhere.
type SweepLeaser struct {
	client *Client
}

func NewSweepLeaser(client *Client) *SweepLeaser {
	return &SweepLeaser{client: client}
}

func (l *SweepLeaser) coll() *mongo.Collection {
	return l.client.Collection("sweep_leases")
}

func (l *SweepLeaser) Acquire(ctx context.Context, scope string, ttl time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, l.client.queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	var acquired bool
	err := withRetry(ctx, func(ctx context.Context) error {
		_, err := l.coll().UpdateOne(ctx,
			bson.M{"_id": scope, "expires_at": bson.M{"$lt": now}},
			bson.M{"$set": bson.M{"expires_at": now.Add(ttl), "acquired_at": now}},
			options.Update().SetUpsert(true),
		)
		if mongo.IsDuplicateKeyError(err) {
			acquired = false
			return nil
		}
		if err != nil {
			return err
		}
		acquired = true
		return nil
	})
	if err != nil {
		return false, wrapError(err)
	}
	return acquired, nil
}

func (l *SweepLeaser) Release(ctx context.Context, scope string) error {
	ctx, cancel := context.WithTimeout(ctx, l.client.queryTimeout)
	defer cancel()

	return wrapError(withRetry(ctx, func(ctx context.Context) error {
		_, err := l.coll().DeleteOne(ctx, bson.M{"_id": scope})
		return err
	}))
}
