package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"typograph/models"
)

type ResourceRepository struct {
	col *mongo.Collection
}

func NewResourceRepository(db *mongo.Database) *ResourceRepository {
	return &ResourceRepository{col: db.Collection("resources")}
}

// Insert records the metadata of one uploaded media file.
func (r *ResourceRepository) Insert(ctx context.Context, res *models.Resource) error {
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}
	out, err := r.col.InsertOne(ctx, res)
	if err != nil {
		return err
	}
	if oid, ok := out.InsertedID.(primitive.ObjectID); ok {
		res.ID = oid
	}
	return nil
}
