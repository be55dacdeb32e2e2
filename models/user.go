package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an API account allowed to call the remote interface.
// Collection: users (unique index on username)
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"`
}
