package services

import (
	"fmt"
	"strings"

	"typograph/models"
)

// URLBuilder derives public addresses for posts and uploaded files.
//
// Two implementations exist and are selected by availability at startup:
// the site builder composes date-based permalinks from the configured site
// base URL, and the fallback builder yields generic relative paths when no
// base URL is configured. The fallback keeps URL derivation working in
// isolation, e.g. in tests without a serving context.
type URLBuilder interface {
	PostURL(a *models.Article) string
	FileURL(name string) string
}

// NewURLBuilder picks the builder implementation for the given site
// configuration. filesPublicPath is the URL path media files are served
// under, e.g. "/files".
func NewURLBuilder(siteBaseURL, filesPublicPath string) URLBuilder {
	base := strings.TrimRight(strings.TrimSpace(siteBaseURL), "/")
	files := "/" + strings.Trim(filesPublicPath, "/")
	if base == "" {
		return fallbackURLBuilder{files: files}
	}
	return siteURLBuilder{base: base, files: files}
}

type siteURLBuilder struct {
	base  string
	files string
}

func (b siteURLBuilder) PostURL(a *models.Article) string {
	if a.CreatedAt.IsZero() {
		// No usable creation date, no date-based permalink.
		return fmt.Sprintf("%s/articles/read/%s", b.base, a.ID.Hex())
	}
	return fmt.Sprintf("%s/articles/%04d/%02d/%02d/%s",
		b.base, a.CreatedAt.Year(), int(a.CreatedAt.Month()), a.CreatedAt.Day(),
		StripTitle(a.Title))
}

func (b siteURLBuilder) FileURL(name string) string {
	return b.base + b.files + "/" + strings.TrimLeft(name, "/")
}

type fallbackURLBuilder struct {
	files string
}

func (b fallbackURLBuilder) PostURL(a *models.Article) string {
	return "/articles/read/" + a.ID.Hex()
}

func (b fallbackURLBuilder) FileURL(name string) string {
	return b.files + "/" + strings.TrimLeft(name, "/")
}

// StripTitle normalizes a title into its permalink segment: lowercased,
// with runs of non-alphanumeric characters collapsed to a single dash.
func StripTitle(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
