// Package panel holds the expand/collapse state of the skills and projects
// sections.
package panel

const (
	iconExpanded  = "▾"
	iconCollapsed = "▸"
)

// Skills keeps one independent collapsed flag per category. Categories
// start expanded.
type Skills struct {
	collapsed map[string]bool
}

// NewSkills registers the given categories.
func NewSkills(names ...string) *Skills {
	s := &Skills{collapsed: make(map[string]bool, len(names))}
	for _, name := range names {
		s.collapsed[name] = false
	}
	return s
}

// Toggle flips one category and reports whether it is now collapsed.
// Unknown categories are left alone.
func (s *Skills) Toggle(name string) bool {
	state, ok := s.collapsed[name]
	if !ok {
		return false
	}
	s.collapsed[name] = !state
	return !state
}

// Collapsed reports the state of a category.
func (s *Skills) Collapsed(name string) bool {
	return s.collapsed[name]
}

// Icon returns the disclosure marker matching the category state.
func (s *Skills) Icon(name string) string {
	if s.Collapsed(name) {
		return iconCollapsed
	}
	return iconExpanded
}

// Projects enforces that at most one card shows its details.
type Projects struct {
	count    int
	expanded int
}

// NewProjects tracks n cards, all collapsed.
func NewProjects(n int) *Projects {
	if n < 0 {
		n = 0
	}
	return &Projects{count: n, expanded: -1}
}

// Len returns the number of cards.
func (p *Projects) Len() int {
	return p.count
}

// Activate toggles card i. Expanding a card collapses whichever card was
// open; activating the open card collapses it and nothing else.
func (p *Projects) Activate(i int) {
	if i < 0 || i >= p.count {
		return
	}
	if p.expanded == i {
		p.expanded = -1
		return
	}
	p.expanded = i
}

// Expanded returns the open card, if any.
func (p *Projects) Expanded() (int, bool) {
	return p.expanded, p.expanded >= 0
}

// IsExpanded reports whether card i is open.
func (p *Projects) IsExpanded(i int) bool {
	return p.expanded >= 0 && p.expanded == i
}

// ExpandedCount is 0 or 1.
func (p *Projects) ExpandedCount() int {
	if p.expanded >= 0 {
		return 1
	}
	return 0
}
