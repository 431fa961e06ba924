package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func testServer(t *testing.T, files map[string]string) (*Server, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	srv, err := New(filepath.Join(dir, "blogIndex.json"), log.New(io.Discard))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	srv.Reload(context.Background())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

const sampleIndex = `[
  {"title": "First", "date": "2025-01-02", "preview": "hello", "file": "first.md"},
  {"title": "", "date": "bogus", "content": "inline **body**"},
  {"title": "Broken", "file": "missing.md"}
]`

func TestHealthLive(t *testing.T) {
	_, ts := testServer(t, nil)
	status, body := get(t, ts.URL+"/health/live")
	if status != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Fatalf("status=%d body=%s", status, body)
	}
}

func TestServesIndexAndFiles(t *testing.T) {
	_, ts := testServer(t, map[string]string{
		"blogIndex.json": sampleIndex,
		"first.md":       "# First post\n",
	})

	status, body := get(t, ts.URL+"/blogs/blogIndex.json")
	if status != http.StatusOK || !strings.Contains(body, `"First"`) {
		t.Fatalf("index: status=%d body=%s", status, body)
	}
	status, body = get(t, ts.URL+"/blogs/first.md")
	if status != http.StatusOK || body != "# First post\n" {
		t.Fatalf("file: status=%d body=%q", status, body)
	}
	if status, _ := get(t, ts.URL+"/blogs/nope.md"); status != http.StatusNotFound {
		t.Fatalf("missing file status = %d", status)
	}
	if status, _ := get(t, ts.URL+"/blogs/..%2fsecret"); status != http.StatusBadRequest {
		t.Fatalf("traversal status = %d", status)
	}
}

func TestServesFilesInSubdirectories(t *testing.T) {
	_, ts := testServer(t, map[string]string{
		"blogIndex.json":        `[{"title": "Nested", "file": "2025/notes.md"}]`,
		"2025/notes.md":         "# Nested notes\n",
		"2025/drafts/part-1.md": "draft",
	})

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{path: "/blogs/2025/notes.md", wantStatus: http.StatusOK, wantBody: "# Nested notes\n"},
		{path: "/blogs/2025/drafts/part-1.md", wantStatus: http.StatusOK, wantBody: "draft"},
		{path: "/blogs/2025%2Fnotes.md", wantStatus: http.StatusOK, wantBody: "# Nested notes\n"},
		{path: "/blogs/2025", wantStatus: http.StatusNotFound},
		{path: "/blogs/2025/..%2f..%2fsecret", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		status, body := get(t, ts.URL+tt.path)
		if status != tt.wantStatus {
			t.Fatalf("%s: status = %d, want %d", tt.path, status, tt.wantStatus)
		}
		if tt.wantBody != "" && body != tt.wantBody {
			t.Fatalf("%s: body = %q", tt.path, body)
		}
	}

	status, body := get(t, ts.URL+"/posts/0")
	if status != http.StatusOK || !strings.Contains(body, "Nested notes") {
		t.Fatalf("rendered post: status=%d body=%s", status, body)
	}
}

func TestMissingIndexIsNotFound(t *testing.T) {
	srv, ts := testServer(t, nil)
	if status, _ := get(t, ts.URL+"/blogs/blogIndex.json"); status != http.StatusNotFound {
		t.Fatalf("status = %d", status)
	}
	if !srv.Index().FellBack() {
		t.Fatal("missing index should serve the fallback")
	}
}

func TestListPosts(t *testing.T) {
	_, ts := testServer(t, map[string]string{"blogIndex.json": sampleIndex})

	status, body := get(t, ts.URL+"/posts")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var got postList
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Outcome != "loaded" || len(got.Posts) != 3 {
		t.Fatalf("list = %+v", got)
	}
	if got.Posts[0].Date != "January 2, 2025" {
		t.Fatalf("date = %q", got.Posts[0].Date)
	}
	if got.Posts[1].Title != "Untitled Post" || got.Posts[1].Date != "No date" {
		t.Fatalf("defaults = %+v", got.Posts[1])
	}
}

func TestShowPost(t *testing.T) {
	_, ts := testServer(t, map[string]string{
		"blogIndex.json": sampleIndex,
		"first.md":       "# First post\n\nSome *words*.\n",
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		want       []string
	}{
		{name: "file", path: "/posts/0", wantStatus: http.StatusOK, want: []string{"<h1>First post</h1>", "<em>words</em>", "January 2, 2025"}},
		{name: "inline", path: "/posts/1", wantStatus: http.StatusOK, want: []string{"<strong>body</strong>", "Untitled Post"}},
		{name: "diagnostic", path: "/posts/2", wantStatus: http.StatusOK, want: []string{"file not found: missing.md", "blogs/missing.md"}},
		{name: "out of range", path: "/posts/3", wantStatus: http.StatusNotFound},
		{name: "negative", path: "/posts/-1", wantStatus: http.StatusNotFound},
		{name: "not a number", path: "/posts/abc", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, ts.URL+tt.path)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
			for _, want := range tt.want {
				if !strings.Contains(body, want) {
					t.Fatalf("body missing %q:\n%s", want, body)
				}
			}
		})
	}
}

func TestReloadPicksUpChanges(t *testing.T) {
	srv, _ := testServer(t, map[string]string{"blogIndex.json": `[]`})
	if n := len(srv.Index().Posts); n != 0 {
		t.Fatalf("posts = %d", n)
	}
	if err := os.WriteFile(srv.src.Location, []byte(sampleIndex), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	idx := srv.Reload(context.Background())
	if idx.FellBack() || len(srv.Index().Posts) != 3 {
		t.Fatalf("index = %+v", idx)
	}
}

func TestNewRejectsRemoteIndex(t *testing.T) {
	if _, err := New("https://example.com/blogs/blogIndex.json", nil); err == nil {
		t.Fatal("expected an error for a remote index")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	srv, _ := testServer(t, map[string]string{"blogIndex.json": `[]`})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}
