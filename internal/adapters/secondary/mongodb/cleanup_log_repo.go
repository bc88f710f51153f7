package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"automl-platform-service/internal/core/domain"
)

type cleanupLogDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Operation      string             `bson:"operation"`
	Scope          string             `bson:"scope,omitempty"`
	BlobsDeleted   int                `bson:"blobs_deleted"`
	RecordsDeleted map[string]int     `bson:"records_deleted"`
	Flagged        []string           `bson:"flagged,omitempty"`
	Errors         []string           `bson:"errors,omitempty"`
	StartedAt      time.Time          `bson:"started_at"`
	FinishedAt     time.Time          `bson:"finished_at"`
}

type CleanupLogRepository struct {
	client *Client
}

func NewCleanupLogRepository(client *Client) *CleanupLogRepository {
	return &CleanupLogRepository{client: client}
}

func (r *CleanupLogRepository) coll() *mongo.Collection {
	return r.client.Collection("cleanup_logs")
}

func (r *CleanupLogRepository) Insert(ctx context.Context, s *domain.SweepSummary) error {
	ctx, cancel := context.WithTimeout(ctx, r.client.queryTimeout)
	defer cancel()

	return wrapError(withRetry(ctx, func(ctx context.Context) error {
		_, err := r.coll().InsertOne(ctx, &cleanupLogDocument{
			Operation:      string(s.Operation),
			Scope:          s.Scope,
			BlobsDeleted:   s.BlobsDeleted,
			RecordsDeleted: s.RecordsDeleted,
			Flagged:        s.Flagged,
			Errors:         s.Errors,
			StartedAt:      s.StartedAt,
			FinishedAt:     s.FinishedAt,
		})
		return err
	}))
}

func (r *CleanupLogRepository) List(ctx context.Context, limit int) ([]*domain.SweepSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.client.queryTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(int64(limit))

	var docs []cleanupLogDocument
	err := withRetry(ctx, func(ctx context.Context) error {
		cursor, err := r.coll().Find(ctx, bson.M{}, opts)
		if err != nil {
			return err
		}
		docs = docs[:0]
		return cursor.All(ctx, &docs)
	})
	if err != nil {
		return nil, wrapError(err)
	}

	summaries := make([]*domain.SweepSummary, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		summaries = append(summaries, &domain.SweepSummary{
			Operation:      domain.SweepOperation(doc.Operation),
			Scope:          doc.Scope,
			BlobsDeleted:   doc.BlobsDeleted,
			RecordsDeleted: doc.RecordsDeleted,
			Flagged:        doc.Flagged,
			Errors:         doc.Errors,
			StartedAt:      doc.StartedAt,
			FinishedAt:     doc.FinishedAt,
		})
	}
	return summaries, nil
}
