package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"automl-platform-service/internal/core/domain"
)

type predictionDocument struct {
	ID            string                 `bson:"_id"`
	OwnerID       string                 `bson:"owner_id"`
	ModelID       string                 `bson:"model_id"`
	Input         map[string]interface{} `bson:"input"`
	Outputs       []interface{}          `bson:"outputs"`
	Probabilities [][]float64            `bson:"probabilities,omitempty"`
	CreatedAt     time.Time              `bson:"created_at"`
}

type PredictionRepository struct {
	client *Client
}

func NewPredictionRepository(client *Client) *PredictionRepository {
	return &PredictionRepository{client: client}
}

func (r *PredictionRepository) coll() *mongo.Collection {
	return r.client.Collection("predictions")
}

func (r *PredictionRepository) Insert(ctx context.Context, p *domain.Prediction) error {
	ctx, cancel := context.WithTimeout(ctx, r.client.queryTimeout)
	defer cancel()

	return wrapError(withRetry(ctx, func(ctx context.Context) error {
		_, err := r.coll().InsertOne(ctx, &predictionDocument{
			ID:            p.ID,
			OwnerID:       p.OwnerID,
			ModelID:       p.ModelID,
			Input:         p.Input,
			Outputs:       p.Outputs,
			Probabilities: p.Probabilities,
			CreatedAt:     p.CreatedAt,
		})
		return err
	}))
}

func (r *PredictionRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*domain.Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, r.client.queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	var docs []predictionDocument
	err := withRetry(ctx, func(ctx context.Context) error {
		cursor, err := r.coll().Find(ctx, bson.M{"owner_id": ownerID}, opts)
		if err != nil {
			return err
		}
		docs = docs[:0]
		return cursor.All(ctx, &docs)
	})
	if err != nil {
		return nil, wrapError(err)
	}

	predictions := make([]*domain.Prediction, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		predictions = append(predictions, &domain.Prediction{
			ID:            doc.ID,
			OwnerID:       doc.OwnerID,
			ModelID:       doc.ModelID,
			Input:         doc.Input,
			Outputs:       doc.Outputs,
			Probabilities: doc.Probabilities,
			CreatedAt:     doc.CreatedAt,
		})
	}
	return predictions, nil
}

func (r *PredictionRepository) DeleteByOwner(ctx context.Context, ownerID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.client.queryTimeout)
	defer cancel()

	var deleted int
	err := withRetry(ctx, func(ctx context.Context) error {
		res, err := r.coll().DeleteMany(ctx, bson.M{"owner_id": ownerID})
		if err != nil {
			return err
		}
		deleted = int(res.DeletedCount)
		return nil
	})
	return deleted, wrapError(err)
}
