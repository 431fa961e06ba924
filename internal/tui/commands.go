package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/termfolio/internal/blog"
	"github.com/csheth/termfolio/internal/easter"
	"github.com/csheth/termfolio/internal/markdown"
)

func loadIndexJob(src blog.Source, delay time.Duration) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-parent.Done():
				timer.Stop()
				return indexLoadedMsg{index: blog.Index{Posts: blog.Fallback(), Outcome: blog.OutcomeAbsent, Err: parent.Err()}}, parent.Err()
			case <-timer.C:
			}
		}
		ctx, cancel := context.WithTimeout(parent, 15*time.Second)
		defer cancel()
		idx := blog.Resolve(ctx, src)
		return indexLoadedMsg{index: idx}, idx.Err
	}
}

func loadPostJob(resolver *blog.Resolver, post blog.Post, index, width int) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 30*time.Second)
		defer cancel()

		body, err := resolver.Content(ctx, post)
		src := body.Markdown
		var cerr *blog.ContentError
		if errors.As(err, &cerr) {
			src = cerr.Diagnostic()
		}
		msg := postLoadedMsg{
			index:    index,
			title:    post.DisplayTitle(),
			rendered: renderMarkdown(src, width),
			origin:   body.Origin,
			err:      err,
		}
		return msg, err
	}
}

func renderMarkdown(src string, width int) string {
	term, err := markdown.NewTerminal(markdown.StyleDark, width)
	if err != nil {
		return src
	}
	return markdown.Safe(term, src)
}

type consoleCommand struct {
	name        string
	description string
	run         func(m *model) []string
}

// consoleCommands is set in init since help() ranges over it.
var consoleCommands []consoleCommand

func init() {
	consoleCommands = []consoleCommand{
		{
			name:        "showSecrets()",
			description: "list the hidden features",
			run: func(m *model) []string {
				return easter.Secrets()
			},
		},
		{
			name:        "matrixMode()",
			description: "shift the rain hue and drop particles",
			run: func(m *model) []string {
				m.activateMatrix()
				return nil
			},
		},
		{
			name:        "help()",
			description: "list console commands",
			run: func(m *model) []string {
				lines := make([]string, 0, len(consoleCommands))
				for _, cmd := range consoleCommands {
					lines = append(lines, fmt.Sprintf("%s  %s", cmd.name, cmd.description))
				}
				return lines
			},
		},
		{
			name:        "clear()",
			description: "clear the console",
			run: func(m *model) []string {
				m.consoleLines = nil
				return []string{"Console was cleared"}
			},
		},
	}
}

// normalizeConsoleInput accepts "name", "name()" and "name();".
func normalizeConsoleInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimSuffix(input, ";")
	input = strings.TrimSpace(input)
	if input != "" && !strings.HasSuffix(input, "()") {
		input += "()"
	}
	return input
}

func (m *model) runConsole(input string) {
	name := normalizeConsoleInput(input)
	if name == "" {
		return
	}
	m.printConsole("> " + name)
	for _, cmd := range consoleCommands {
		if cmd.name == name {
			m.logger.Debug("console command", "name", name)
			m.printConsole(cmd.run(m)...)
			return
		}
	}
	m.printConsole(fmt.Sprintf("Uncaught ReferenceError: %s is not defined", strings.TrimSuffix(name, "()")))
}

func (m *model) printConsole(lines ...string) {
	m.consoleLines = append(m.consoleLines, lines...)
	if over := len(m.consoleLines) - maxConsoleLines; over > 0 {
		m.consoleLines = append([]string(nil), m.consoleLines[over:]...)
	}
}
