// Package sidebar holds the configuration of the XML syndication sidebar
// widget: which feeds are offered on the blog's sidebar and in which
// format.
package sidebar

import "strings"

// Feed format choices offered to the blog owner.
const (
	FormatRSS20  = "rss20"
	FormatAtom10 = "atom10"
)

// XMLSidebar is the settings holder for the syndication sidebar.
type XMLSidebar struct {
	Articles   bool   `yaml:"articles" json:"articles"`
	Comments   bool   `yaml:"comments" json:"comments"`
	Trackbacks bool   `yaml:"trackbacks" json:"trackbacks"`
	Format     string `yaml:"format" json:"format"`
}

// DisplayName is the widget's name as shown in the admin UI.
func (XMLSidebar) DisplayName() string { return "XML Syndication" }

// Description is the widget's admin UI blurb.
func (XMLSidebar) Description() string { return "RSS and Atom feeds" }

// Default returns the sidebar with its stock settings: article and comment
// feeds on, trackback feed off, Atom 1.0 format.
func Default() XMLSidebar {
	return XMLSidebar{
		Articles: true,
		Comments: true,
		Format:   FormatAtom10,
	}
}

// FormatStrip returns the format with version digits removed, e.g.
// "atom10" -> "atom", as used in feed template names.
func (s XMLSidebar) FormatStrip() string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, s.Format)
}
