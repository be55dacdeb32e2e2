package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"typograph/models"
)

// In-memory stores standing in for the Mongo repositories. They return
// mongo.ErrNoDocuments exactly as the real ones do.

type memArticles struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Article
}

func newMemArticles() *memArticles {
	return &memArticles{items: map[primitive.ObjectID]models.Article{}}
}

func (m *memArticles) Insert(ctx context.Context, a *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = time.Now()
	m.items[a.ID] = *a
	return nil
}

func (m *memArticles) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := a
	return &out, nil
}

func (m *memArticles) FindRecent(ctx context.Context, limit int) ([]models.Article, error) {
	if limit <= 0 {
		return []models.Article{}, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Article, 0, len(m.items))
	for _, a := range m.items {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memArticles) Update(ctx context.Context, a *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[a.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	m.items[a.ID] = *a
	return nil
}

func (m *memArticles) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.items, id)
	return nil
}

func (m *memArticles) PullCategoryFromAll(ctx context.Context, catID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.items {
		kept := a.CategoryIDs[:0]
		for _, cid := range a.CategoryIDs {
			if cid != catID {
				kept = append(kept, cid)
			}
		}
		a.CategoryIDs = kept
		m.items[id] = a
	}
	return nil
}

type memCategories struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Category
}

func newMemCategories() *memCategories {
	return &memCategories{items: map[primitive.ObjectID]models.Category{}}
}

func (m *memCategories) Insert(ctx context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	m.items[c.ID] = *c
	return nil
}

func (m *memCategories) FindByName(ctx context.Context, name string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		if c.Name == name {
			out := c
			return &out, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memCategories) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Category
	for _, id := range ids {
		if c, ok := m.items[id]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memCategories) List(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Category, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memCategories) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

type memResources struct {
	mu    sync.Mutex
	items []models.Resource
}

func (m *memResources) Insert(ctx context.Context, res *models.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if res.ID.IsZero() {
		res.ID = primitive.NewObjectID()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}
	m.items = append(m.items, *res)
	return nil
}

type memUsers struct {
	users map[string]models.User
}

func (m *memUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := u
	return &out, nil
}

// recordingNotifier captures Notify calls synchronously.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

type notifyCall struct {
	postURL  string
	pingURLs string
}

func (n *recordingNotifier) Notify(postURL, pingURLs string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{postURL: postURL, pingURLs: pingURLs})
}
