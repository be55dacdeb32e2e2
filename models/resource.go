package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource records one uploaded media file. Written once per upload,
// never updated or deleted afterwards.
// Collection: resources
type Resource struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	Filename  string             `bson:"filename" json:"filename"`
	Size      int64              `bson:"size" json:"size"`
	Mime      string             `bson:"mime" json:"mime"`
}
