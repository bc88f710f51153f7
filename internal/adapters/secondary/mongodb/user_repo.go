package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"automl-platform-service/internal/core/domain"
)

type userDocument struct {
	UserID    string    `bson:"_id"`
	Email     string    `bson:"email"`
	Name      string    `bson:"name,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type UserRepository struct {
	client *Client
}

func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) coll() *mongo.Collection {
	return r.client.Collection("users")
}

func (r *UserRepository) Insert(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.client.queryTimeout)
	defer cancel()

	err := withRetry(ctx, func(ctx context.Context) error {
		_, err := r.coll().InsertOne(ctx, &userDocument{
			UserID:    u.UserID,
			Email:     u.Email,
			Name:      u.Name,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		})
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return err
	})
	return wrapError(err)
}

func (r *UserRepository) Get(ctx context.Context, userID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.client.queryTimeout)
	defer cancel()

	var doc userDocument
	err := withRetry(ctx, func(ctx context.Context) error {
		return r.coll().FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, wrapError(err)
	}
	return &domain.User{
		UserID:    doc.UserID,
		Email:     doc.Email,
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.client.queryTimeout)
	defer cancel()

	err := withRetry(ctx, func(ctx context.Context) error {
		res, err := r.coll().UpdateOne(ctx, bson.M{"_id": u.UserID}, bson.M{"$set": bson.M{
			"email":      u.Email,
			"name":       u.Name,
			"updated_at": u.UpdatedAt,
		}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
	return wrapError(err)
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.client.queryTimeout)
	defer cancel()

	err := withRetry(ctx, func(ctx context.Context) error {
		res, err := r.coll().DeleteOne(ctx, bson.M{"_id": userID})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
	return wrapError(err)
}
