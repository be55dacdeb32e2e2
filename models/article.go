package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Article represents a blog post document.
// Collection: articles
//
// Published, AllowComments and AllowPings are stored as 0/1 integers
// regardless of the truthiness the wire protocol delivered; MovableType
// clients exchange these flags as ints. CreatedAt is set once at creation
// and never altered by an edit.
type Article struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CreatedAt     time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at" json:"updated_at"`
	Title         string               `bson:"title" json:"title"`
	Body          string               `bson:"body" json:"body"`
	Extended      string               `bson:"extended" json:"extended"`
	Excerpt       string               `bson:"excerpt" json:"excerpt"`
	Keywords      string               `bson:"keywords" json:"keywords"`
	Author        string               `bson:"author" json:"author"`
	TextFilter    string               `bson:"text_filter" json:"text_filter"`
	Published     int                  `bson:"published" json:"published"`
	AllowComments int                  `bson:"allow_comments" json:"allow_comments"`
	AllowPings    int                  `bson:"allow_pings" json:"allow_pings"`
	CategoryIDs   []primitive.ObjectID `bson:"category_ids" json:"category_ids"`
}
