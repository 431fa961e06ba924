// Package blog loads the post index, resolves post bodies and tracks the
// list/detail state of the blog viewer.
package blog

import (
	"strings"
	"time"
)

// Post is one entry of the blog index.
type Post struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Preview string `json:"preview"`
	Content string `json:"content"`
	File    string `json:"file,omitempty"`
}

const (
	untitled       = "Untitled Post"
	undated        = "No date"
	defaultPreview = "Click to read this blog post..."
	displayLayout  = "January 2, 2006"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// DisplayTitle returns the title or the untitled placeholder.
func (p Post) DisplayTitle() string {
	if title := strings.TrimSpace(p.Title); title != "" {
		return title
	}
	return untitled
}

// DisplayDate formats the date as "January 2, 2006". Missing or unparsable
// dates render as "No date".
func (p Post) DisplayDate() string {
	raw := strings.TrimSpace(p.Date)
	if raw == "" {
		return undated
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(displayLayout)
		}
	}
	return undated
}

// DisplayPreview returns the preview or a generic call to action.
func (p Post) DisplayPreview() string {
	if preview := strings.TrimSpace(p.Preview); preview != "" {
		return preview
	}
	return defaultPreview
}

// HasPreview reports whether the post carries its own preview text.
func (p Post) HasPreview() bool {
	return strings.TrimSpace(p.Preview) != ""
}

// Fallback returns the built-in index used whenever the real one cannot be
// loaded.
func Fallback() []Post {
	return []Post{{
		Title:   "Welcome to My Blog",
		Date:    "2025-08-17",
		Preview: "This is the preamble to my blogging journey",
		Content: "# I WILL WRITE BLOGS!\n\nAm I telling you or reminding myself? Lets see!\n",
	}}
}
