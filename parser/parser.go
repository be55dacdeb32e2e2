// Package parser splits category commands out of MovableType post titles.
//
// Blog clients following the MovableType convention may prefix a post title
// with a bracketed block of category commands, e.g.
//
//	"[+Go -Drafts] Generics in practice"
//
// Each whitespace-separated token inside the brackets is a command: "+name"
// creates the category and assigns it, "-name" destroys it globally. The
// remainder of the string is the actual title.
package parser

import (
	"regexp"
	"strings"
)

var titleCommandRe = regexp.MustCompile(`^\[(.*?)\]\s*(.*)$`)

// ParseTitle extracts category commands from a raw title.
//
// When the title starts with a bracketed command block, the returned
// commands slice holds the whitespace-separated tokens (possibly empty but
// non-nil) and cleanTitle is the trimmed remainder. Otherwise commands is
// nil and cleanTitle is the input unchanged.
//
// ParseTitle is pure; executing the commands is the caller's concern.
func ParseTitle(raw string) (commands []string, cleanTitle string) {
	m := titleCommandRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, raw
	}

	commands = []string{}
	for _, tok := range strings.Fields(m[1]) {
		commands = append(commands, tok)
	}
	return commands, strings.TrimSpace(m[2])
}
