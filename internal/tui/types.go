package tui

import (
	"time"

	"github.com/csheth/termfolio/internal/blog"
)

type stage int

const (
	stagePortfolio stage = iota
	stageBlog
	stageConsole
)

func (s stage) String() string {
	switch s {
	case stagePortfolio:
		return "PORTFOLIO"
	case stageBlog:
		return "BLOG"
	case stageConsole:
		return "CONSOLE"
	default:
		return "?"
	}
}

const heroTagline = "$ ls ~/portfolio  # tab to focus, enter to toggle, b for the blog"

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	heroHeight                = 5
	consoleHeight             = 3
	maxConsoleLines           = 50
)

const (
	frameInterval  = time.Second / 30
	resizeDebounce = 250 * time.Millisecond
)

type bindingKind int

const (
	bindSkill bindingKind = iota
	bindProject
)

// binding is one focusable item of the portfolio page.
type binding struct {
	kind    bindingKind
	section string
	skill   string
	project int
	label   string
}

type frameMsg time.Time

type resizeMsg struct {
	seq    int
	width  int
	height int
}

type indexLoadedMsg struct {
	index blog.Index
}

type postLoadedMsg struct {
	index    int
	title    string
	rendered string
	origin   string
	err      error
}
