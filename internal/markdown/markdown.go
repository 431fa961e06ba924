// Package markdown turns post bodies into HTML or terminal output.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts raw markdown into display markup. Callers insert the
// result verbatim.
type Renderer interface {
	Render(src string) (string, error)
}

// HTML renders GitHub-flavored markdown to HTML. Raw HTML in the source is
// passed through unescaped.
type HTML struct {
	md goldmark.Markdown
}

// NewHTML returns an HTML renderer.
func NewHTML() *HTML {
	return &HTML{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)}
}

// Render implements Renderer.
func (h *HTML) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown: render html: %w", err)
	}
	return buf.String(), nil
}

// Terminal styles accepted by NewTerminal.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// Terminal renders markdown as ANSI-styled text wrapped to a width.
type Terminal struct {
	style string
	width int
	tr    *glamour.TermRenderer
}

// NewTerminal builds a glamour renderer. Unknown styles fall back to dark.
func NewTerminal(style string, width int) (*Terminal, error) {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case StyleDark, StyleLight, StyleNoTTY:
		style = strings.ToLower(strings.TrimSpace(style))
	default:
		style = StyleDark
	}
	if width <= 0 {
		width = 80
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("markdown: terminal renderer: %w", err)
	}
	return &Terminal{style: style, width: width, tr: tr}, nil
}

// Width returns the wrap width.
func (t *Terminal) Width() int {
	return t.width
}

// Style returns the glamour style name in use.
func (t *Terminal) Style() string {
	return t.style
}

// Render implements Renderer.
func (t *Terminal) Render(src string) (string, error) {
	out, err := t.tr.Render(src)
	if err != nil {
		return "", fmt.Errorf("markdown: render terminal: %w", err)
	}
	return out, nil
}

// Safe renders src and falls back to the raw source when rendering fails.
func Safe(r Renderer, src string) string {
	if r == nil {
		return src
	}
	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return out
}
