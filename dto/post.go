package dto

import (
	"time"

	"typograph/models"
	"typograph/xmlrpc"
)

// MovableType wire field names. These are fixed by third-party client
// compatibility and must not be renamed.
const (
	FieldDescription   = "description"
	FieldTitle         = "title"
	FieldPostID        = "postid"
	FieldURL           = "url"
	FieldLink          = "link"
	FieldPermaLink     = "permaLink"
	FieldCategories    = "categories"
	FieldTextMore      = "mt_text_more"
	FieldExcerpt       = "mt_excerpt"
	FieldKeywords      = "mt_keywords"
	FieldAllowComments = "mt_allow_comments"
	FieldAllowPings    = "mt_allow_pings"
	FieldConvertBreaks = "mt_convert_breaks"
	FieldTBPingURLs    = "mt_tb_ping_urls"
	FieldDateCreated   = "dateCreated"
)

// PostDTO is the wire shape of a post in the MetaWeblog/MovableType
// dialect. The Has* flags distinguish omitted optional fields from fields
// explicitly sent empty, which matters for default resolution and for the
// wholesale category replacement on writes.
type PostDTO struct {
	Description      string
	Title            string
	PostID           string
	URL              string
	Link             string
	PermaLink        string
	Categories       []string
	HasCategories    bool
	TextMore         string
	Excerpt          string
	Keywords         string
	AllowComments    int
	HasAllowComments bool
	AllowPings       int
	HasAllowPings    bool
	ConvertBreaks    string
	TBPingURLs       string
	DateCreated      time.Time
}

// NewPostDTO constructs the wire DTO for an article. categoryNames must be
// the resolved names of the article's categories and url its permalink;
// url, link and permaLink carry the same value by protocol convention.
func NewPostDTO(a models.Article, categoryNames []string, url string) PostDTO {
	if categoryNames == nil {
		categoryNames = []string{}
	}
	return PostDTO{
		Description:   a.Body,
		Title:         a.Title,
		PostID:        a.ID.Hex(),
		URL:           url,
		Link:          url,
		PermaLink:     url,
		Categories:    categoryNames,
		HasCategories: true,
		TextMore:      a.Extended,
		Excerpt:       a.Excerpt,
		Keywords:      a.Keywords,
		AllowComments: a.AllowComments,
		AllowPings:    a.AllowPings,
		ConvertBreaks: a.TextFilter,
		DateCreated:   a.CreatedAt,
	}
}

// PostDTOFromValue reads a wire struct into a PostDTO, recording which
// optional fields were present.
func PostDTOFromValue(v xmlrpc.Value) PostDTO {
	var d PostDTO

	if f, ok := v.Field(FieldDescription); ok {
		d.Description = f.AsString()
	}
	if f, ok := v.Field(FieldTitle); ok {
		d.Title = f.AsString()
	}
	if f, ok := v.Field(FieldPostID); ok {
		d.PostID = f.AsString()
	}
	if f, ok := v.Field(FieldCategories); ok {
		d.Categories = f.AsStrings()
		d.HasCategories = true
	}
	if f, ok := v.Field(FieldTextMore); ok {
		d.TextMore = f.AsString()
	}
	if f, ok := v.Field(FieldExcerpt); ok {
		d.Excerpt = f.AsString()
	}
	if f, ok := v.Field(FieldKeywords); ok {
		d.Keywords = f.AsString()
	}
	if f, ok := v.Field(FieldAllowComments); ok {
		d.AllowComments = f.AsInt()
		d.HasAllowComments = true
	}
	if f, ok := v.Field(FieldAllowPings); ok {
		d.AllowPings = f.AsInt()
		d.HasAllowPings = true
	}
	if f, ok := v.Field(FieldConvertBreaks); ok {
		d.ConvertBreaks = f.AsString()
	}
	if f, ok := v.Field(FieldTBPingURLs); ok {
		d.TBPingURLs = f.AsString()
	}
	if f, ok := v.Field(FieldDateCreated); ok {
		d.DateCreated = f.AsTime()
	}
	return d
}

// ToValue encodes the DTO as a wire struct. A zero DateCreated is sent as
// an empty string, matching what legacy clients expect for undated posts.
func (d PostDTO) ToValue() xmlrpc.Value {
	fields := map[string]xmlrpc.Value{
		FieldDescription:   xmlrpc.NewString(d.Description),
		FieldTitle:         xmlrpc.NewString(d.Title),
		FieldPostID:        xmlrpc.NewString(d.PostID),
		FieldURL:           xmlrpc.NewString(d.URL),
		FieldLink:          xmlrpc.NewString(d.Link),
		FieldPermaLink:     xmlrpc.NewString(d.PermaLink),
		FieldCategories:    xmlrpc.NewStringArray(d.Categories),
		FieldTextMore:      xmlrpc.NewString(d.TextMore),
		FieldExcerpt:       xmlrpc.NewString(d.Excerpt),
		FieldKeywords:      xmlrpc.NewString(d.Keywords),
		FieldAllowComments: xmlrpc.NewInt(d.AllowComments),
		FieldAllowPings:    xmlrpc.NewInt(d.AllowPings),
		FieldConvertBreaks: xmlrpc.NewString(d.ConvertBreaks),
	}
	if d.DateCreated.IsZero() {
		fields[FieldDateCreated] = xmlrpc.NewString("")
	} else {
		fields[FieldDateCreated] = xmlrpc.NewTime(d.DateCreated)
	}
	return xmlrpc.NewStruct(fields)
}
