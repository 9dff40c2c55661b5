package scraper

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"knewkarma/pkg/normalize"
)

// a Caser is stateful, so each goroutine takes its own
var folders = sync.Pool{
	New: func() any { return cases.Fold() },
}

func fold(s string) string {
	c := folders.Get().(cases.Caser)
	out := c.String(s)
	folders.Put(c)
	return out
}

// containsFold reports whether keyword occurs in text under Unicode case
// folding
func containsFold(text, keyword string) bool {
	return strings.Contains(fold(text), fold(keyword))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// filterPosts keeps posts whose title or body contains keyword
func filterPosts(posts []normalize.Post, keyword string) []normalize.Post {
	out := make([]normalize.Post, 0)
	for _, p := range posts {
		if containsFold(deref(p.Title)+" "+deref(p.Body), keyword) {
			out = append(out, p)
		}
	}
	return out
}

// filterComments keeps comments whose body contains keyword
func filterComments(comments []normalize.Comment, keyword string) []normalize.Comment {
	out := make([]normalize.Comment, 0)
	for _, c := range comments {
		if containsFold(deref(c.Body), keyword) {
			out = append(out, c)
		}
	}
	return out
}
