package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"typograph/models"
	"typograph/xmlrpc"
)

func TestNewPostDTO(t *testing.T) {
	created := time.Date(2024, 3, 7, 9, 30, 0, 0, time.UTC)
	a := models.Article{
		ID:            primitive.NewObjectID(),
		CreatedAt:     created,
		Title:         "Hello",
		Body:          "body",
		Extended:      "extended",
		Excerpt:       "excerpt",
		Keywords:      "kw",
		TextFilter:    "markdown",
		AllowComments: 1,
		AllowPings:    0,
	}

	d := NewPostDTO(a, []string{"Go", "Linux"}, "https://blog.example.com/p")

	assert.Equal(t, a.ID.Hex(), d.PostID)
	assert.Equal(t, "Hello", d.Title)
	assert.Equal(t, "body", d.Description)
	assert.Equal(t, "extended", d.TextMore)
	assert.Equal(t, []string{"Go", "Linux"}, d.Categories)
	assert.True(t, d.HasCategories)
	assert.Equal(t, "https://blog.example.com/p", d.URL)
	assert.Equal(t, d.URL, d.Link)
	assert.Equal(t, d.URL, d.PermaLink)
	assert.Equal(t, 1, d.AllowComments)
	assert.Equal(t, 0, d.AllowPings)
	assert.Equal(t, "markdown", d.ConvertBreaks)
	assert.True(t, d.DateCreated.Equal(created))
}

func TestNewPostDTONilCategories(t *testing.T) {
	d := NewPostDTO(models.Article{}, nil, "")
	require.NotNil(t, d.Categories, "categories must encode as an empty array, not nil")
	assert.Empty(t, d.Categories)
}

func TestPostDTOFromValuePresenceFlags(t *testing.T) {
	full := xmlrpc.NewStruct(map[string]xmlrpc.Value{
		FieldTitle:         xmlrpc.NewString("T"),
		FieldDescription:   xmlrpc.NewString("D"),
		FieldCategories:    xmlrpc.NewStringArray([]string{"Go"}),
		FieldAllowComments: xmlrpc.NewInt(0),
		FieldAllowPings:    xmlrpc.NewInt(1),
		FieldTBPingURLs:    xmlrpc.NewString("http://a/tb"),
	})

	d := PostDTOFromValue(full)
	assert.Equal(t, "T", d.Title)
	assert.Equal(t, "D", d.Description)
	assert.Equal(t, []string{"Go"}, d.Categories)
	assert.True(t, d.HasCategories)
	assert.True(t, d.HasAllowComments)
	assert.Equal(t, 0, d.AllowComments)
	assert.True(t, d.HasAllowPings)
	assert.Equal(t, 1, d.AllowPings)
	assert.Equal(t, "http://a/tb", d.TBPingURLs)

	sparse := PostDTOFromValue(xmlrpc.NewStruct(map[string]xmlrpc.Value{
		FieldTitle: xmlrpc.NewString("only title"),
	}))
	assert.False(t, sparse.HasCategories)
	assert.False(t, sparse.HasAllowComments)
	assert.False(t, sparse.HasAllowPings)
}

func TestPostDTOFromValueCoercesStringFlags(t *testing.T) {
	// Some clients send the mt_ flags as strings rather than ints.
	d := PostDTOFromValue(xmlrpc.NewStruct(map[string]xmlrpc.Value{
		FieldAllowComments: xmlrpc.NewString("1"),
	}))
	assert.True(t, d.HasAllowComments)
	assert.Equal(t, 1, d.AllowComments)
}

func TestPostDTOToValueRoundTrip(t *testing.T) {
	in := PostDTO{
		Title:         "T",
		Description:   "D",
		PostID:        "abc",
		Categories:    []string{"Go"},
		TextMore:      "more",
		Excerpt:       "ex",
		Keywords:      "kw",
		AllowComments: 1,
		AllowPings:    0,
		ConvertBreaks: "markdown",
		DateCreated:   time.Date(2024, 3, 7, 9, 30, 0, 0, time.UTC),
	}

	out := PostDTOFromValue(in.ToValue())
	assert.Equal(t, in.Title, out.Title)
	assert.Equal(t, in.Description, out.Description)
	assert.Equal(t, in.PostID, out.PostID)
	assert.Equal(t, in.Categories, out.Categories)
	assert.Equal(t, in.TextMore, out.TextMore)
	assert.Equal(t, in.AllowComments, out.AllowComments)
	assert.Equal(t, in.AllowPings, out.AllowPings)
	assert.True(t, out.DateCreated.Equal(in.DateCreated))
}

func TestPostDTOToValueZeroDate(t *testing.T) {
	v := PostDTO{Title: "undated"}.ToValue()
	f, ok := v.Field(FieldDateCreated)
	require.True(t, ok)
	assert.Equal(t, "", f.AsString())
}

func TestMediaDTOFromValue(t *testing.T) {
	d := MediaDTOFromValue(xmlrpc.NewStruct(map[string]xmlrpc.Value{
		"name": xmlrpc.NewString("2024/pic.png"),
		"type": xmlrpc.NewString("image/png"),
		"bits": xmlrpc.NewBase64([]byte{1, 2, 3}),
	}))
	assert.Equal(t, "2024/pic.png", d.Name)
	assert.Equal(t, "image/png", d.Type)
	assert.Equal(t, []byte{1, 2, 3}, d.Bits)
}
