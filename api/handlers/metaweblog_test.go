package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"typograph/config"
	"typograph/models"
	"typograph/services"
)

type staticAuth struct{ user, pass string }

func (a staticAuth) Authenticate(ctx context.Context, u, p string) bool {
	return u == a.user && p == a.pass
}

type fakeArticles struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Article
}

func (f *fakeArticles) Insert(ctx context.Context, a *models.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	f.items[a.ID] = *a
	return nil
}

func (f *fakeArticles) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := a
	return &out, nil
}

func (f *fakeArticles) FindRecent(ctx context.Context, limit int) ([]models.Article, error) {
	if limit <= 0 {
		return []models.Article{}, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Article, 0, len(f.items))
	for _, a := range f.items {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeArticles) Update(ctx context.Context, a *models.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[a.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	f.items[a.ID] = *a
	return nil
}

func (f *fakeArticles) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.items, id)
	return nil
}

func (f *fakeArticles) PullCategoryFromAll(ctx context.Context, catID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.items {
		kept := a.CategoryIDs[:0]
		for _, cid := range a.CategoryIDs {
			if cid != catID {
				kept = append(kept, cid)
			}
		}
		a.CategoryIDs = kept
		f.items[id] = a
	}
	return nil
}

type fakeCategories struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Category
}

func (f *fakeCategories) Insert(ctx context.Context, c *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.items[c.ID] = *c
	return nil
}

func (f *fakeCategories) FindByName(ctx context.Context, name string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.Name == name {
			out := c
			return &out, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeCategories) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Category
	for _, id := range ids {
		if c, ok := f.items[id]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategories) List(ctx context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Category, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategories) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

type fakeResources struct {
	mu    sync.Mutex
	items []models.Resource
}

func (f *fakeResources) Insert(ctx context.Context, res *models.Resource) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, *res)
	return nil
}

type silentNotifier struct{}

func (silentNotifier) Notify(postURL, pingURLs string) {}

type testEnv struct {
	router    *gin.Engine
	articles  *fakeArticles
	filesRoot string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	articles := &fakeArticles{items: map[primitive.ObjectID]models.Article{}}
	categories := &fakeCategories{items: map[primitive.ObjectID]models.Category{}}
	urls := services.NewURLBuilder("https://blog.example.com", "/files")

	posts := services.NewMetaWeblogService(
		articles,
		categories,
		config.DefaultsConfig{AllowComments: 1, AllowPings: 1},
		urls,
		silentNotifier{},
		services.NoopPublisher{},
	)

	filesRoot := t.TempDir()
	media := services.NewMediaService(&fakeResources{}, filesRoot, urls, services.NoopPublisher{})

	h := NewMetaWeblogHandler(staticAuth{user: "seth", pass: "s3cret"}, posts, media)

	r := gin.New()
	r.POST("/xmlrpc", h.Endpoint())

	return &testEnv{router: r, articles: articles, filesRoot: filesRoot}
}

func (e *testEnv) post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/xmlrpc", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/xml")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

const newPostBody = `<?xml version="1.0"?>
<methodCall>
  <methodName>metaWeblog.newPost</methodName>
  <params>
    <param><value><string>1</string></value></param>
    <param><value><string>seth</string></value></param>
    <param><value>s3cret</value></param>
    <param><value><struct>
      <member><name>title</name><value><string>[+Go] Hello Wire</string></value></member>
      <member><name>description</name><value><string>body text</string></value></member>
      <member><name>mt_text_more</name><value><string>more text</string></value></member>
    </struct></value></param>
    <param><value><boolean>1</boolean></value></param>
  </params>
</methodCall>`

var stringResultRe = regexp.MustCompile(`<string>([0-9a-f]{24})</string>`)

func TestNewPostThenGetPostOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, newPostBody)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.NotContains(t, body, "faultCode", "unexpected fault: %s", body)

	m := stringResultRe.FindStringSubmatch(body)
	require.NotNil(t, m, "no post id in response: %s", body)
	postID := m[1]

	getBody := `<?xml version="1.0"?>
<methodCall>
  <methodName>metaWeblog.getPost</methodName>
  <params>
    <param><value><string>` + postID + `</string></value></param>
    <param><value><string>seth</string></value></param>
    <param><value><string>s3cret</string></value></param>
  </params>
</methodCall>`

	w = env.post(t, getBody)
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	require.NotContains(t, body, "faultCode", "unexpected fault: %s", body)

	assert.Contains(t, body, "<string>Hello Wire</string>")
	assert.Contains(t, body, "<string>body text</string>")
	assert.Contains(t, body, "<string>more text</string>")
	assert.Contains(t, body, "<name>mt_text_more</name>")
	assert.Contains(t, body, "<name>permaLink</name>")
	assert.Contains(t, body, "<string>Go</string>")
	assert.Contains(t, body, postID)
}

func TestAuthenticationFaultBeforeHandlerLogic(t *testing.T) {
	env := newTestEnv(t)

	bad := strings.Replace(newPostBody, "<value>s3cret</value>", "<value>wrong</value>", 1)
	w := env.post(t, bad)

	require.Equal(t, http.StatusOK, w.Code, "faults ride HTTP 200")
	assert.Contains(t, w.Body.String(), "faultCode")
	assert.Contains(t, w.Body.String(), "<int>401</int>")
	assert.Empty(t, env.articles.items, "failed auth must not create a post")
}

func TestUnknownMethodFault(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, `<?xml version="1.0"?>
<methodCall>
  <methodName>metaWeblog.bogusOperation</methodName>
  <params>
    <param><value><string>seth</string></value></param>
    <param><value><string>s3cret</string></value></param>
  </params>
</methodCall>`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<int>-32601</int>")
}

func TestMalformedRequestFault(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "this is not xml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "faultCode")
	assert.Contains(t, w.Body.String(), "<int>400</int>")
}

func TestGetPostNotFoundFault(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, `<?xml version="1.0"?>
<methodCall>
  <methodName>metaWeblog.getPost</methodName>
  <params>
    <param><value><string>64b000000000000000000000</string></value></param>
    <param><value><string>seth</string></value></param>
    <param><value><string>s3cret</string></value></param>
  </params>
</methodCall>`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<int>404</int>")
}

func TestBloggerDeletePostShiftedCredentials(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, newPostBody)
	m := stringResultRe.FindStringSubmatch(w.Body.String())
	require.NotNil(t, m)
	postID := m[1]

	// blogger.deletePost leads with the legacy appkey, so the credentials
	// sit one position later than in the other operations.
	w = env.post(t, `<?xml version="1.0"?>
<methodCall>
  <methodName>blogger.deletePost</methodName>
  <params>
    <param><value><string>appkey</string></value></param>
    <param><value><string>`+postID+`</string></value></param>
    <param><value><string>seth</string></value></param>
    <param><value><string>s3cret</string></value></param>
    <param><value><boolean>1</boolean></value></param>
  </params>
</methodCall>`)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.NotContains(t, body, "faultCode", "unexpected fault: %s", body)
	assert.Contains(t, body, "<boolean>1</boolean>")
	assert.Empty(t, env.articles.items)
}

func TestGetRecentPostsOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	for _, title := range []string{"AAA", "BBB", "CCC"} {
		body := strings.Replace(newPostBody, "[+Go] Hello Wire", title, 1)
		w := env.post(t, body)
		require.NotContains(t, w.Body.String(), "faultCode")
	}

	w := env.post(t, `<?xml version="1.0"?>
<methodCall>
  <methodName>metaWeblog.getRecentPosts</methodName>
  <params>
    <param><value><string>1</string></value></param>
    <param><value><string>seth</string></value></param>
    <param><value><string>s3cret</string></value></param>
    <param><value><int>2</int></value></param>
  </params>
</methodCall>`)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.NotContains(t, body, "faultCode", "unexpected fault: %s", body)
	assert.Equal(t, 2, strings.Count(body, "<name>postid</name>"))
}

func TestNewMediaObjectOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	bits := []byte("fake image bytes")
	w := env.post(t, `<?xml version="1.0"?>
<methodCall>
  <methodName>metaWeblog.newMediaObject</methodName>
  <params>
    <param><value><string>1</string></value></param>
    <param><value><string>seth</string></value></param>
    <param><value><string>s3cret</string></value></param>
    <param><value><struct>
      <member><name>name</name><value><string>2024/pic.png</string></value></member>
      <member><name>type</name><value><string>image/png</string></value></member>
      <member><name>bits</name><value><base64>`+base64.StdEncoding.EncodeToString(bits)+`</base64></value></member>
    </struct></value></param>
  </params>
</methodCall>`)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.NotContains(t, body, "faultCode", "unexpected fault: %s", body)
	assert.Contains(t, body, "<name>url</name>")
	assert.Contains(t, body, "https://blog.example.com/files/2024/pic.png")

	onDisk, err := os.ReadFile(filepath.Join(env.filesRoot, "2024", "pic.png"))
	require.NoError(t, err)
	assert.Equal(t, bits, onDisk)
}

func TestNewMediaObjectRejectsTraversal(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, `<?xml version="1.0"?>
<methodCall>
  <methodName>metaWeblog.newMediaObject</methodName>
  <params>
    <param><value><string>1</string></value></param>
    <param><value><string>seth</string></value></param>
    <param><value><string>s3cret</string></value></param>
    <param><value><struct>
      <member><name>name</name><value><string>../escape.txt</string></value></member>
      <member><name>type</name><value><string>text/plain</string></value></member>
      <member><name>bits</name><value><base64>aGk=</base64></value></member>
    </struct></value></param>
  </params>
</methodCall>`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<int>400</int>")
}
