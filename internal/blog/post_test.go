package blog

import "testing"

func TestPostDisplayDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		post  Post
		title string
		date  string
	}{
		{name: "complete", post: Post{Title: "Hello", Date: "2025-08-17"}, title: "Hello", date: "August 17, 2025"},
		{name: "rfc3339", post: Post{Title: "T", Date: "2024-02-29T10:00:00Z"}, title: "T", date: "February 29, 2024"},
		{name: "missing title", post: Post{Date: "2025-01-01"}, title: "Untitled Post", date: "January 1, 2025"},
		{name: "blank title", post: Post{Title: "   "}, title: "Untitled Post", date: "No date"},
		{name: "garbage date", post: Post{Title: "X", Date: "sometime soon"}, title: "X", date: "No date"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.post.DisplayTitle(); got != tt.title {
				t.Fatalf("title = %q, want %q", got, tt.title)
			}
			if got := tt.post.DisplayDate(); got != tt.date {
				t.Fatalf("date = %q, want %q", got, tt.date)
			}
		})
	}
}

func TestPostPreview(t *testing.T) {
	t.Parallel()

	if p := (Post{}); p.HasPreview() || p.DisplayPreview() != defaultPreview {
		t.Fatalf("empty preview: has=%v display=%q", p.HasPreview(), p.DisplayPreview())
	}
	if p := (Post{Preview: "teaser"}); !p.HasPreview() || p.DisplayPreview() != "teaser" {
		t.Fatal("preview not used")
	}
}

func TestFallbackIsSingleWelcomePost(t *testing.T) {
	t.Parallel()

	posts := Fallback()
	if len(posts) != 1 {
		t.Fatalf("fallback has %d posts", len(posts))
	}
	if posts[0].Title != "Welcome to My Blog" || posts[0].Content == "" {
		t.Fatalf("fallback = %+v", posts[0])
	}
	posts[0].Title = "mutated"
	if Fallback()[0].Title != "Welcome to My Blog" {
		t.Fatal("fallback shares state between calls")
	}
}
