package blog

// View is the screen the blog viewer is on.
type View int

const (
	ViewLoading View = iota
	ViewList
	ViewDetail
)

func (v View) String() string {
	switch v {
	case ViewLoading:
		return "loading"
	case ViewList:
		return "list"
	case ViewDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Card is the display form of a post in the list view.
type Card struct {
	Title      string
	Date       string
	Preview    string
	HasPreview bool
}

// Viewer is the loading → list ⇄ detail state machine.
type Viewer struct {
	view   View
	index  Index
	cursor int
	open   int
}

// NewViewer starts in the loading view.
func NewViewer() *Viewer {
	return &Viewer{view: ViewLoading, open: -1}
}

// View returns the current screen.
func (v *Viewer) View() View {
	return v.view
}

// Loading puts the viewer back on the loading screen.
func (v *Viewer) Loading() {
	v.view = ViewLoading
	v.open = -1
}

// SetIndex adopts a working set and shows the list.
func (v *Viewer) SetIndex(idx Index) {
	v.index = idx
	v.view = ViewList
	v.open = -1
	v.clampCursor()
}

// Index returns the working set.
func (v *Viewer) Index() Index {
	return v.index
}

// Posts returns the posts of the working set.
func (v *Viewer) Posts() []Post {
	return v.index.Posts
}

// Empty reports whether the list view shows the "no posts" placeholder.
func (v *Viewer) Empty() bool {
	return len(v.index.Posts) == 0
}

// Cards returns one card per post.
func (v *Viewer) Cards() []Card {
	cards := make([]Card, 0, len(v.index.Posts))
	for _, p := range v.index.Posts {
		cards = append(cards, Card{
			Title:      p.DisplayTitle(),
			Date:       p.DisplayDate(),
			Preview:    p.DisplayPreview(),
			HasPreview: p.HasPreview(),
		})
	}
	return cards
}

// Cursor returns the highlighted card.
func (v *Viewer) Cursor() int {
	return v.cursor
}

// Move shifts the cursor, clamped to the list.
func (v *Viewer) Move(delta int) {
	v.cursor += delta
	v.clampCursor()
}

func (v *Viewer) clampCursor() {
	if v.cursor >= len(v.index.Posts) {
		v.cursor = len(v.index.Posts) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// Open switches to the detail view of post i.
func (v *Viewer) Open(i int) (Post, bool) {
	if v.view == ViewLoading || i < 0 || i >= len(v.index.Posts) {
		return Post{}, false
	}
	v.cursor = i
	v.open = i
	v.view = ViewDetail
	return v.index.Posts[i], true
}

// OpenCursor opens the highlighted post.
func (v *Viewer) OpenCursor() (Post, bool) {
	return v.Open(v.cursor)
}

// Current returns the post shown in the detail view.
func (v *Viewer) Current() (Post, int, bool) {
	if v.view != ViewDetail || v.open < 0 {
		return Post{}, -1, false
	}
	return v.index.Posts[v.open], v.open, true
}

// Back returns from the detail view to the list.
func (v *Viewer) Back() {
	if v.view == ViewDetail {
		v.view = ViewList
		v.open = -1
	}
}
