package markdown

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

func TestHTMLRendersHeadingsAndLists(t *testing.T) {
	t.Parallel()

	out, err := NewHTML().Render("# I WILL WRITE BLOGS!\n\n- one\n- two\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"<h1>I WILL WRITE BLOGS!</h1>", "<li>one</li>", "<ul>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHTMLIsBestEffortOnMalformedInput(t *testing.T) {
	t.Parallel()

	out, err := NewHTML().Render("**unclosed [link](")
	if err != nil {
		t.Fatalf("malformed markdown should still render: %v", err)
	}
	if !strings.Contains(out, "unclosed") {
		t.Fatalf("text lost: %q", out)
	}
}

func TestTerminalWrapsText(t *testing.T) {
	t.Parallel()

	r, err := NewTerminal(StyleNoTTY, 40)
	if err != nil {
		t.Fatalf("NewTerminal: %v", err)
	}
	out, err := r.Render("# Title\n\nAm I telling you or reminding myself? Lets see!")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	plain := ansiPattern.ReplaceAllString(out, "")
	if !strings.Contains(plain, "Title") || !strings.Contains(plain, "reminding") {
		t.Fatalf("terminal output missing text:\n%s", plain)
	}
}

func TestTerminalUnknownStyleFallsBack(t *testing.T) {
	t.Parallel()

	r, err := NewTerminal("neon", 0)
	if err != nil {
		t.Fatalf("NewTerminal: %v", err)
	}
	if r.Style() != StyleDark || r.Width() != 80 {
		t.Fatalf("style/width = %s/%d", r.Style(), r.Width())
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(string) (string, error) { return "", errors.New("boom") }

func TestSafeFallsBackToSource(t *testing.T) {
	t.Parallel()

	if got := Safe(failingRenderer{}, "# raw"); got != "# raw" {
		t.Fatalf("Safe = %q, want raw source", got)
	}
	if got := Safe(nil, "x"); got != "x" {
		t.Fatalf("Safe(nil) = %q", got)
	}
}
