package panel

import (
	"math/rand/v2"
	"testing"
)

func TestSkillsTogglesAreIndependent(t *testing.T) {
	t.Parallel()

	s := NewSkills("Languages", "Cloud", "Databases")
	if s.Collapsed("Cloud") {
		t.Fatal("categories should start expanded")
	}
	if !s.Toggle("Cloud") {
		t.Fatal("toggle should report collapsed")
	}
	if s.Collapsed("Languages") || s.Collapsed("Databases") {
		t.Fatal("toggling Cloud changed another category")
	}
	if s.Icon("Cloud") != iconCollapsed || s.Icon("Languages") != iconExpanded {
		t.Fatalf("icons = %q/%q", s.Icon("Cloud"), s.Icon("Languages"))
	}
	s.Toggle("Languages")
	s.Toggle("Cloud")
	if s.Collapsed("Cloud") || !s.Collapsed("Languages") {
		t.Fatal("unexpected state after second round of toggles")
	}
	if s.Toggle("Unknown") {
		t.Fatal("unknown category should not report collapsed")
	}
}

func TestProjectsSingleExpansion(t *testing.T) {
	t.Parallel()

	p := NewProjects(4)
	p.Activate(1)
	if i, ok := p.Expanded(); !ok || i != 1 {
		t.Fatalf("expanded = %d/%v, want 1", i, ok)
	}
	p.Activate(3)
	if p.IsExpanded(1) || !p.IsExpanded(3) {
		t.Fatal("opening card 3 should close card 1")
	}
	p.Activate(3)
	if p.ExpandedCount() != 0 {
		t.Fatalf("re-activating the open card left %d expanded", p.ExpandedCount())
	}
	p.Activate(9)
	if p.ExpandedCount() != 0 {
		t.Fatal("out-of-range activation expanded a card")
	}
}

func TestProjectsNeverMoreThanOneExpanded(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewPCG(1, 2))
	p := NewProjects(6)
	for i := 0; i < 500; i++ {
		p.Activate(rnd.IntN(6))
		open := 0
		for card := 0; card < p.Len(); card++ {
			if p.IsExpanded(card) {
				open++
			}
		}
		if open > 1 {
			t.Fatalf("step %d: %d cards expanded", i, open)
		}
	}
}
