package tui

import (
	"strings"
	"testing"

	"github.com/csheth/termfolio/internal/content"
)

func TestPageLayoutUpdate(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		wantViewportW  int
		wantViewportH  int
		wantRainHeight int
	}{
		{name: "default terminal", width: 80, height: 24, wantViewportW: 76, wantViewportH: 9, wantRainHeight: 4},
		{name: "large terminal", width: 200, height: 48, wantViewportW: 196, wantViewportH: 29, wantRainHeight: 8},
		{name: "tiny terminal clamps", width: 30, height: 10, wantViewportW: 40, wantViewportH: 6, wantRainHeight: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tt.width, tt.height)
			if layout.viewportWidth != tt.wantViewportW {
				t.Errorf("viewportWidth = %d, want %d", layout.viewportWidth, tt.wantViewportW)
			}
			if layout.viewportHeight != tt.wantViewportH {
				t.Errorf("viewportHeight = %d, want %d", layout.viewportHeight, tt.wantViewportH)
			}
			if layout.rainHeight != tt.wantRainHeight {
				t.Errorf("rainHeight = %d, want %d", layout.rainHeight, tt.wantRainHeight)
			}
		})
	}
}

func TestNewPageLayoutMatchesDefaultTerminal(t *testing.T) {
	fresh := newPageLayout()
	updated := newPageLayout()
	updated.Update(80, 24)
	if fresh != updated {
		t.Fatalf("newPageLayout = %+v, Update(80,24) = %+v", fresh, updated)
	}
}

func TestBuildDisplayContentAnchors(t *testing.T) {
	m := newTestModel(t)
	view := m.buildDisplayContent()
	lines := strings.Split(view.content, "\n")

	prev := -1
	for _, id := range m.sectionIDs {
		anchor, ok := view.anchors[id]
		if !ok {
			t.Fatalf("missing anchor for %s", id)
		}
		if anchor <= prev {
			t.Fatalf("anchor for %s = %d, not after %d", id, anchor, prev)
		}
		prev = anchor
		header := stripANSI(lines[anchor])
		if want := "~/" + content.SectionTitle(id); header != want {
			t.Fatalf("line %d = %q, want %q", anchor, header, want)
		}
		if view.heights[id] <= 0 {
			t.Fatalf("height for %s = %d", id, view.heights[id])
		}
	}
}

func TestBindingLinesPointAtLabels(t *testing.T) {
	m := newTestModel(t)
	view := m.buildDisplayContent()
	lines := strings.Split(view.content, "\n")

	if len(view.bindingLines) != len(m.bindings) {
		t.Fatalf("binding lines = %d, bindings = %d", len(view.bindingLines), len(m.bindings))
	}
	for idx, b := range m.bindings {
		line := stripANSI(lines[view.bindingLines[idx]])
		if !strings.Contains(line, b.label) {
			t.Fatalf("binding %d (%s) points at %q", idx, b.label, line)
		}
	}
}

func TestRevealDoesNotMoveAnchors(t *testing.T) {
	m := newTestModel(t)
	m.View()
	before := m.buildDisplayContent()
	m.reveal.RevealAll()
	after := m.buildDisplayContent()

	for id, anchor := range before.anchors {
		if after.anchors[id] != anchor {
			t.Fatalf("anchor for %s moved from %d to %d", id, anchor, after.anchors[id])
		}
	}
	if stripANSI(before.content) != stripANSI(after.content) {
		t.Fatal("revealing should only change styling")
	}
}

func TestExpandedProjectShowsDetails(t *testing.T) {
	m := newTestModel(t)
	proj := m.config.Profile.Projects[0]
	if len(proj.Details) == 0 {
		t.Fatal("default profile should carry project details")
	}
	collapsed := stripANSI(m.buildDisplayContent().content)
	if strings.Contains(collapsed, proj.Details[0]) {
		t.Fatal("details should be hidden while collapsed")
	}
	m.projects.Activate(0)
	expanded := stripANSI(m.buildDisplayContent().content)
	if !strings.Contains(expanded, "[-] "+proj.Name) {
		t.Fatalf("expanded marker missing:\n%s", expanded)
	}
	if !strings.Contains(expanded, strings.Fields(proj.Details[0])[0]) {
		t.Fatalf("details missing:\n%s", expanded)
	}
}

func TestClampYOffset(t *testing.T) {
	m := newTestModel(t)
	m.lineCount = 20
	m.viewport.Height = 5
	tests := []struct {
		in, want int
	}{
		{-3, 0},
		{0, 0},
		{7, 7},
		{15, 15},
		{40, 15},
	}
	for _, tt := range tests {
		if got := m.clampYOffset(tt.in); got != tt.want {
			t.Errorf("clampYOffset(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
