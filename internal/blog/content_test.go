package blog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeBlogDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return filepath.Join(dir, "blogIndex.json")
}

func TestContentPrefersFile(t *testing.T) {
	t.Parallel()

	index := writeBlogDir(t, map[string]string{"post.md": "# From file\n"})
	r := NewResolver(Source{Location: index}, "")

	body, err := r.Content(context.Background(), Post{File: "post.md", Content: "# Inline"})
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if body.Markdown != "# From file\n" {
		t.Fatalf("markdown = %q, want file contents", body.Markdown)
	}
	if filepath.Base(body.Origin) != "post.md" {
		t.Fatalf("origin = %q", body.Origin)
	}
}

func TestContentUsesInlineWithoutFile(t *testing.T) {
	t.Parallel()

	r := NewResolver(Source{Location: "unused/blogIndex.json"}, "")
	body, err := r.Content(context.Background(), Post{Content: "# Inline"})
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if body.Markdown != "# Inline" || body.Origin != "inline" {
		t.Fatalf("body = %+v", body)
	}
}

func TestContentMissingFileReportsName(t *testing.T) {
	t.Parallel()

	index := writeBlogDir(t, nil)
	r := NewResolver(Source{Location: index}, "")

	_, err := r.Content(context.Background(), Post{File: "ghost.md", Content: "ignored"})
	var cerr *ContentError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *ContentError", err)
	}
	if cerr.File != "ghost.md" {
		t.Fatalf("file = %q", cerr.File)
	}
	diag := cerr.Diagnostic()
	for _, want := range []string{"file not found: ghost.md", "blogs/ghost.md", "To fix this"} {
		if !strings.Contains(diag, want) {
			t.Fatalf("diagnostic missing %q:\n%s", want, diag)
		}
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

func TestSafeJoinRejectsTraversal(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	tests := []struct {
		rel string
		ok  bool
	}{
		{rel: "post.md", ok: true},
		{rel: "nested/post.md", ok: true},
		{rel: "nested/../post.md", ok: true},
		{rel: "../secret.md", ok: false},
		{rel: "nested/../../secret.md", ok: false},
		{rel: "/etc/passwd", ok: false},
	}
	for _, tt := range tests {
		got, err := SafeJoin(root, tt.rel)
		if tt.ok && err != nil {
			t.Fatalf("SafeJoin(%q): %v", tt.rel, err)
		}
		if !tt.ok && err == nil {
			t.Fatalf("SafeJoin(%q) = %s, want error", tt.rel, got)
		}
	}
}

func TestContentFetchesRemoteFileRelativeToIndex(t *testing.T) {
	t.Parallel()

	var requested string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		if r.URL.Path != "/blogs/remote.md" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("# Remote"))
	}))
	t.Cleanup(server.Close)

	src := Source{Location: server.URL + "/blogs/blogIndex.json", Client: server.Client()}
	r := NewResolver(src, t.TempDir())

	body, err := r.Content(context.Background(), Post{File: "remote.md"})
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if body.Markdown != "# Remote" {
		t.Fatalf("markdown = %q", body.Markdown)
	}
	if requested != "/blogs/remote.md" {
		t.Fatalf("requested %q", requested)
	}

	_, err = r.Content(context.Background(), Post{File: "missing.md"})
	var cerr *ContentError
	if !errors.As(err, &cerr) || cerr.File != "missing.md" {
		t.Fatalf("err = %v, want content error for missing.md", err)
	}
}
