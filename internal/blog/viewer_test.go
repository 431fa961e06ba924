package blog

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestViewerCardsMatchPosts(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 5; n++ {
		v := NewViewer()
		posts := make([]Post, n)
		for i := range posts {
			posts[i] = Post{Title: "post"}
		}
		v.SetIndex(Index{Posts: posts})
		if got := len(v.Cards()); got != n {
			t.Fatalf("n=%d: cards = %d", n, got)
		}
		if v.Empty() != (n == 0) {
			t.Fatalf("n=%d: empty = %v", n, v.Empty())
		}
	}
}

func TestViewerTransitions(t *testing.T) {
	t.Parallel()

	v := NewViewer()
	if v.View() != ViewLoading {
		t.Fatalf("initial view = %v", v.View())
	}
	if _, ok := v.Open(0); ok {
		t.Fatal("open must fail while loading")
	}

	v.SetIndex(Index{Posts: []Post{{Title: "one"}, {Title: "two"}}})
	if v.View() != ViewList {
		t.Fatalf("view = %v, want list", v.View())
	}
	v.Move(5)
	if v.Cursor() != 1 {
		t.Fatalf("cursor = %d, want clamp to 1", v.Cursor())
	}
	v.Move(-9)
	if v.Cursor() != 0 {
		t.Fatalf("cursor = %d, want clamp to 0", v.Cursor())
	}

	post, ok := v.Open(1)
	if !ok || post.Title != "two" || v.View() != ViewDetail {
		t.Fatalf("open(1) = %+v %v view=%v", post, ok, v.View())
	}
	if cur, i, ok := v.Current(); !ok || i != 1 || cur.Title != "two" {
		t.Fatalf("current = %+v %d %v", cur, i, ok)
	}
	if _, ok := v.Open(7); ok {
		t.Fatal("out of range open should fail")
	}

	v.Back()
	if v.View() != ViewList {
		t.Fatalf("view after back = %v", v.View())
	}
	if _, _, ok := v.Current(); ok {
		t.Fatal("no current post in list view")
	}

	v.Loading()
	v.SetIndex(Index{Posts: []Post{{Title: "only"}}})
	if v.Cursor() != 0 {
		t.Fatalf("cursor not clamped after shrink: %d", v.Cursor())
	}
}

func TestWatchReportsIndexChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	index := filepath.Join(dir, "blogIndex.json")
	if err := os.WriteFile(index, []byte(`[]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	changed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, index, nil, func() {
			calls.Add(1)
			changed <- struct{}{}
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(index, []byte(`[{"title":"new"}]`), 0o644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
	time.Sleep(2 * watchDebounce)
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want a single debounced call", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
