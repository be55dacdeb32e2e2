package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"typograph/models"
)

type ArticleRepository struct {
	col *mongo.Collection
}

func NewArticleRepository(db *mongo.Database) *ArticleRepository {
	return &ArticleRepository{col: db.Collection("articles")}
}

// Insert stores a new article and fills in its generated ID.
func (r *ArticleRepository) Insert(ctx context.Context, a *models.Article) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	if a.CategoryIDs == nil {
		a.CategoryIDs = []primitive.ObjectID{}
	}

	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return nil
}

// FindByID returns an article by its ObjectID.
func (r *ArticleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Article, error) {
	var a models.Article
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindRecent returns at most limit articles ordered by created_at
// descending. A limit of zero or less yields nothing.
func (r *ArticleRepository) FindRecent(ctx context.Context, limit int) ([]models.Article, error) {
	if limit <= 0 {
		return []models.Article{}, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.Article
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Update rewrites the mutable fields of an existing article. created_at is
// deliberately left out: it is set once at creation.
func (r *ArticleRepository) Update(ctx context.Context, a *models.Article) error {
	a.UpdatedAt = time.Now()
	if a.CategoryIDs == nil {
		a.CategoryIDs = []primitive.ObjectID{}
	}

	set := bson.M{
		"updated_at":     a.UpdatedAt,
		"title":          a.Title,
		"body":           a.Body,
		"extended":       a.Extended,
		"excerpt":        a.Excerpt,
		"keywords":       a.Keywords,
		"author":         a.Author,
		"text_filter":    a.TextFilter,
		"published":      a.Published,
		"allow_comments": a.AllowComments,
		"allow_pings":    a.AllowPings,
		"category_ids":   a.CategoryIDs,
	}
	res, err := r.col.UpdateByID(ctx, a.ID, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an article permanently.
func (r *ArticleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// PullCategoryFromAll unlinks a category from every article that references
// it. Called when a category is destroyed so no dangling ids remain.
func (r *ArticleRepository) PullCategoryFromAll(ctx context.Context, catID primitive.ObjectID) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"category_ids": catID},
		bson.M{"$pull": bson.M{"category_ids": catID}},
	)
	return err
}
