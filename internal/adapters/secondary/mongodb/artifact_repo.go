package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"automl-platform-service/internal/core/domain"
	"automl-platform-service/internal/core/ports/output"
)

// artifactDocument is the MongoDB representation of an artifact record.
// Kind-specific payloads are embedded subdocuments; at most one is set.
type artifactDocument struct {
	ID          string     `bson:"_id"`
	Kind        string     `bson:"kind"`
	OwnerID     string     `bson:"owner_id"`
	DisplayName string     `bson:"display_name"`
	SizeBytes   int64      `bson:"size_bytes"`
	ContentKey  string     `bson:"content_key"`
	CreatedAt   time.Time  `bson:"created_at"`
	DeletedAt   *time.Time `bson:"deleted_at,omitempty"`

	Dataset *domain.DatasetPayload `bson:"dataset,omitempty"`
	Report  *domain.ReportPayload  `bson:"report,omitempty"`
	Model   *domain.ModelPayload   `bson:"model,omitempty"`
	Plot    *domain.PlotPayload    `bson:"plot,omitempty"`
}

type ArtifactRepository struct {
	client *Client
}

func NewArtifactRepository(client *Client) *ArtifactRepository {
	return &ArtifactRepository{client: client}
}

func (r *ArtifactRepository) coll(kind domain.Kind) *mongo.Collection {
	return r.client.Collection(kind.Collection())
}

func (r *ArtifactRepository) Insert(ctx context.Context, a *domain.Artifact) error {
	ctx, cancel := context.WithTimeout(ctx, r.client.queryTimeout)
	defer cancel()

	return wrapError(withRetry(ctx, func(ctx context.Context) error {
		_, err := r.coll(a.Kind).InsertOne(ctx, toDocument(a))
		return err
	}))
}

func (r *ArtifactRepository) Get(ctx context.Context, kind domain.Kind, id string) (*domain.Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, r.client.queryTimeout)
	defer cancel()

	var doc artifactDocument
	err := withRetry(ctx, func(ctx context.Context) error {
		return r.coll(kind).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapError(err)
	}
	return fromDocument(&doc), nil
}

func (r *ArtifactRepository) Find(ctx context.Context, kind domain.Kind, filter ports.ArtifactFilter) ([]*domain.Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, r.client.queryTimeout)
	defer cancel()

	query := bson.M{}
	if filter.OwnerID != "" {
		query["owner_id"] = filter.OwnerID
	}
	if !filter.CreatedBefore.IsZero() {
		query["created_at"] = bson.M{"$lt": filter.CreatedBefore}
	}
	if !filter.IncludeDeleted {
		query["deleted_at"] = nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	var docs []artifactDocument
	err := withRetry(ctx, func(ctx context.Context) error {
		cursor, err := r.coll(kind).Find(ctx, query, opts)
		if err != nil {
			return err
		}
		docs = docs[:0]
		return cursor.All(ctx, &docs)
	})
	if err != nil {
		return nil, wrapError(err)
	}

	artifacts := make([]*domain.Artifact, 0, len(docs))
	for i := range docs {
		artifacts = append(artifacts, fromDocument(&docs[i]))
	}
	return artifacts, nil
}

func (r *ArtifactRepository) Update(ctx context.Context, a *domain.Artifact) error {
	ctx, cancel := context.WithTimeout(ctx, r.client.queryTimeout)
	defer cancel()

	err := withRetry(ctx, func(ctx context.Context) error {
		res, err := r.coll(a.Kind).ReplaceOne(ctx, bson.M{"_id": a.ID}, toDocument(a))
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	return wrapError(err)
}

func (r *ArtifactRepository) Delete(ctx context.Context, kind domain.Kind, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.client.queryTimeout)
	defer cancel()

	err := withRetry(ctx, func(ctx context.Context) error {
		res, err := r.coll(kind).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	return wrapError(err)
}

func (r *ArtifactRepository) Count(ctx context.Context, kind domain.Kind) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.client.queryTimeout)
	defer cancel()

	var count int64
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		count, err = r.coll(kind).CountDocuments(ctx, bson.M{})
		return err
	})
	return count, wrapError(err)
}

func toDocument(a *domain.Artifact) *artifactDocument {
	return &artifactDocument{
		ID:          a.ID,
		Kind:        string(a.Kind),
		OwnerID:     a.OwnerID,
		DisplayName: a.DisplayName,
		SizeBytes:   a.SizeBytes,
		ContentKey:  a.ContentKey,
		CreatedAt:   a.CreatedAt,
		DeletedAt:   a.DeletedAt,
		Dataset:     a.Dataset,
		Report:      a.Report,
		Model:       a.Model,
		Plot:        a.Plot,
	}
}

func fromDocument(doc *artifactDocument) *domain.Artifact {
	return &domain.Artifact{
		ID:          doc.ID,
		Kind:        domain.Kind(doc.Kind),
		OwnerID:     doc.OwnerID,
		DisplayName: doc.DisplayName,
		SizeBytes:   doc.SizeBytes,
		ContentKey:  doc.ContentKey,
		CreatedAt:   doc.CreatedAt,
		DeletedAt:   doc.DeletedAt,
		Dataset:     doc.Dataset,
		Report:      doc.Report,
		Model:       doc.Model,
		Plot:        doc.Plot,
	}
}
