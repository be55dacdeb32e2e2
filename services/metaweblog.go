package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"typograph/config"
	"typograph/dto"
	"typograph/logger"
	"typograph/models"
	"typograph/parser"
)

// ArticleStore is the slice of the content store the service reads and
// writes posts through.
type ArticleStore interface {
	Insert(ctx context.Context, a *models.Article) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Article, error)
	FindRecent(ctx context.Context, limit int) ([]models.Article, error)
	Update(ctx context.Context, a *models.Article) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	PullCategoryFromAll(ctx context.Context, catID primitive.ObjectID) error
}

// CategoryStore is the slice of the content store backing categories.
type CategoryStore interface {
	Insert(ctx context.Context, c *models.Category) error
	FindByName(ctx context.Context, name string) (*models.Category, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MetaWeblogService implements the post and category operations of the
// MetaWeblog/MovableType remote interface.
//
// The multi-step write path (field mapping, category command execution,
// explicit category replacement, persist, trackback ping) is not wrapped in
// a store transaction: a failure mid-way leaves the category commands
// already applied. This mirrors the long-standing behavior of the protocol
// and is a documented limitation, not a bug.
type MetaWeblogService struct {
	articles   ArticleStore
	categories CategoryStore
	defaults   config.DefaultsConfig
	urls       URLBuilder
	pings      Notifier
	events     Publisher
}

func NewMetaWeblogService(
	articles ArticleStore,
	categories CategoryStore,
	defaults config.DefaultsConfig,
	urls URLBuilder,
	pings Notifier,
	events Publisher,
) *MetaWeblogService {
	return &MetaWeblogService{
		articles:   articles,
		categories: categories,
		defaults:   defaults,
		urls:       urls,
		pings:      pings,
		events:     events,
	}
}

// GetCategories returns the names of all categories.
func (s *MetaWeblogService) GetCategories(ctx context.Context) ([]string, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing categories: %v", ErrStorage, err)
	}
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	return names, nil
}

// GetPost returns the wire DTO for a single post.
func (s *MetaWeblogService) GetPost(ctx context.Context, postID string) (dto.PostDTO, error) {
	a, err := s.findArticle(ctx, postID)
	if err != nil {
		return dto.PostDTO{}, err
	}
	return s.toDTO(ctx, a)
}

// GetRecentPosts returns at most count posts, most recent first. A count
// of zero or less yields an empty list.
func (s *MetaWeblogService) GetRecentPosts(ctx context.Context, count int) ([]dto.PostDTO, error) {
	if count <= 0 {
		return []dto.PostDTO{}, nil
	}
	items, err := s.articles.FindRecent(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("%w: listing recent posts: %v", ErrStorage, err)
	}

	out := make([]dto.PostDTO, 0, len(items))
	for i := range items {
		d, err := s.toDTO(ctx, &items[i])
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// NewPost creates a post from the wire struct and returns the new post id.
func (s *MetaWeblogService) NewPost(ctx context.Context, username string, d dto.PostDTO, publish bool) (string, error) {
	a := &models.Article{
		Author:    username,
		Published: boolToInt(publish),
	}

	if err := s.applyStruct(ctx, a, d); err != nil {
		return "", err
	}
	if err := s.articles.Insert(ctx, a); err != nil {
		return "", fmt.Errorf("%w: saving post: %v", ErrStorage, err)
	}

	// The post is durably addressable now; notify with its final URL.
	url := s.urls.PostURL(a)
	s.pings.Notify(url, d.TBPingURLs)
	s.events.PostCreated(ctx, a.ID.Hex(), a.Title, url, a.Author)

	logger.Log.Infof("post created id=%s author=%s", a.ID.Hex(), username)
	return a.ID.Hex(), nil
}

// EditPost updates an existing post in place. The creation timestamp is
// never altered.
func (s *MetaWeblogService) EditPost(ctx context.Context, postID, username string, d dto.PostDTO, publish bool) error {
	a, err := s.findArticle(ctx, postID)
	if err != nil {
		return err
	}

	a.Author = username
	a.Published = boolToInt(publish)

	if err := s.applyStruct(ctx, a, d); err != nil {
		return err
	}
	if err := s.articles.Update(ctx, a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: post %s", ErrNotFound, postID)
		}
		return fmt.Errorf("%w: saving post: %v", ErrStorage, err)
	}

	url := s.urls.PostURL(a)
	s.pings.Notify(url, d.TBPingURLs)
	s.events.PostUpdated(ctx, a.ID.Hex(), a.Title, url, a.Author)

	logger.Log.Infof("post updated id=%s author=%s", postID, username)
	return nil
}

// DeletePost permanently removes a post.
func (s *MetaWeblogService) DeletePost(ctx context.Context, postID string) error {
	a, err := s.findArticle(ctx, postID)
	if err != nil {
		return err
	}

	if err := s.articles.Delete(ctx, a.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: post %s", ErrNotFound, postID)
		}
		return fmt.Errorf("%w: deleting post: %v", ErrStorage, err)
	}

	s.events.PostDeleted(ctx, postID)
	logger.Log.Infof("post deleted id=%s", postID)
	return nil
}

// applyStruct maps the wire struct onto the article. Order matters and is
// part of the contract: simple field defaults, then title parsing, then
// category command execution, then the explicit category replacement.
func (s *MetaWeblogService) applyStruct(ctx context.Context, a *models.Article, d dto.PostDTO) error {
	a.Body = d.Description
	a.Extended = d.TextMore
	a.Excerpt = d.Excerpt
	a.Keywords = d.Keywords
	a.TextFilter = d.ConvertBreaks

	a.AllowComments = s.defaults.AllowComments
	if d.HasAllowComments {
		a.AllowComments = normalizeFlag(d.AllowComments)
	}
	a.AllowPings = s.defaults.AllowPings
	if d.HasAllowPings {
		a.AllowPings = normalizeFlag(d.AllowPings)
	}

	commands, cleanTitle := parser.ParseTitle(d.Title)
	a.Title = cleanTitle

	if err := s.applyCategoryCommands(ctx, a, commands); err != nil {
		return err
	}

	if d.HasCategories {
		if err := s.replaceCategories(ctx, a, d.Categories); err != nil {
			return err
		}
	}
	return nil
}

// applyCategoryCommands executes the +/- commands extracted from a title.
//
// "+name" creates the category (reusing an existing one with the same
// name) and assigns it to the article. "-name" destroys the category
// globally, unlinking it from every article, not just this one; a missing
// name is a silent no-op. Any other leading character is ignored. This
// destructive global delete is a deliberate, if surprising, part of the
// protocol's contract.
func (s *MetaWeblogService) applyCategoryCommands(ctx context.Context, a *models.Article, commands []string) error {
	for _, cc := range commands {
		if len(cc) < 2 {
			continue
		}
		op, name := cc[:1], cc[1:]

		switch op {
		case "+":
			cat, err := s.ensureCategory(ctx, name)
			if err != nil {
				return err
			}
			if !containsID(a.CategoryIDs, cat.ID) {
				a.CategoryIDs = append(a.CategoryIDs, cat.ID)
			}
		case "-":
			cat, err := s.categories.FindByName(ctx, name)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					continue
				}
				return fmt.Errorf("%w: looking up category %q: %v", ErrStorage, name, err)
			}
			if err := s.categories.Delete(ctx, cat.ID); err != nil {
				return fmt.Errorf("%w: deleting category %q: %v", ErrStorage, name, err)
			}
			if err := s.articles.PullCategoryFromAll(ctx, cat.ID); err != nil {
				return fmt.Errorf("%w: unlinking category %q: %v", ErrStorage, name, err)
			}
			a.CategoryIDs = removeID(a.CategoryIDs, cat.ID)
			logger.Log.Infof("category destroyed name=%s", name)
		default:
			// Clients should only send + and -. Anything else is a no-op.
		}
	}
	return nil
}

// replaceCategories applies an explicit category list wholesale: the
// article's current set is cleared and rebuilt from the names that resolve
// to existing categories. Unknown names are skipped, not created.
func (s *MetaWeblogService) replaceCategories(ctx context.Context, a *models.Article, names []string) error {
	a.CategoryIDs = nil
	for _, name := range names {
		cat, err := s.categories.FindByName(ctx, name)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return fmt.Errorf("%w: looking up category %q: %v", ErrStorage, name, err)
		}
		if !containsID(a.CategoryIDs, cat.ID) {
			a.CategoryIDs = append(a.CategoryIDs, cat.ID)
		}
	}
	return nil
}

// ensureCategory returns the category with the given name, creating it if
// necessary.
func (s *MetaWeblogService) ensureCategory(ctx context.Context, name string) (*models.Category, error) {
	cat, err := s.categories.FindByName(ctx, name)
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: looking up category %q: %v", ErrStorage, name, err)
	}

	cat = &models.Category{Name: name}
	if err := s.categories.Insert(ctx, cat); err != nil {
		return nil, fmt.Errorf("%w: creating category %q: %v", ErrStorage, name, err)
	}
	return cat, nil
}

func (s *MetaWeblogService) findArticle(ctx context.Context, postID string) (*models.Article, error) {
	id, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}
	a, err := s.articles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: post %s", ErrNotFound, postID)
		}
		return nil, fmt.Errorf("%w: loading post: %v", ErrStorage, err)
	}
	return a, nil
}

func (s *MetaWeblogService) toDTO(ctx context.Context, a *models.Article) (dto.PostDTO, error) {
	cats, err := s.categories.FindByIDs(ctx, a.CategoryIDs)
	if err != nil {
		return dto.PostDTO{}, fmt.Errorf("%w: resolving categories: %v", ErrStorage, err)
	}
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	return dto.NewPostDTO(*a, names, s.urls.PostURL(a)), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// normalizeFlag coerces arbitrary client truthiness to the stored 0/1.
func normalizeFlag(v int) int {
	if v != 0 {
		return 1
	}
	return 0
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
