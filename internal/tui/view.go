package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/termfolio/internal/blog"
	"github.com/csheth/termfolio/internal/rain"
)

func (m *model) View() string {
	m.refreshViewportIfDirty()
	parts := []string{m.rainView()}
	switch {
	case m.stage == stageBlog, m.stage == stageConsole && m.returnStage == stageBlog:
		parts = append(parts, m.blogView())
	default:
		parts = append(parts, m.heroView(), m.viewport.View())
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	parts = append(parts, m.consoleView(), m.sessionMeterView())
	return joinNonEmpty(parts)
}

func (m *model) rainView() string {
	palette := rain.GreenPalette
	if m.effect.Active(m.now) {
		palette = rain.ShiftedPalette
	}
	return strings.Join(m.grid.Render(palette), "\n")
}

func (m *model) heroView() string {
	prompt := promptStyle.Render(m.config.Profile.Handle + "@termfolio:~$ ")
	rows := make([]string, 0, heroHeight)
	for i, line := range m.script.Lines() {
		if !line.Started {
			rows = append(rows, prompt+m.blinkCursor())
			break
		}
		typed := commandStyle.Render(line.Typed)
		if line.Typing {
			typed += m.blinkCursor()
		}
		rows = append(rows, prompt+typed)
		if line.OutputVisible {
			rows = append(rows, outputStyle.Render(truncate.StringWithTail(m.cueOutput(i), uint(m.layout.viewportWidth), "…")))
		}
	}
	if m.script.Finished() {
		rows = append(rows, taglineStyle.Render(heroTagline))
	}
	for len(rows) < heroHeight {
		rows = append(rows, "")
	}
	return strings.Join(rows[:heroHeight], "\n")
}

func (m *model) blinkCursor() string {
	if m.now.Sub(m.started).Milliseconds()/500%2 == 0 {
		return promptStyle.Render("█")
	}
	return " "
}

// cueOutput is what each intro command prints: whoami, then cat bio.txt.
func (m *model) cueOutput(i int) string {
	p := m.config.Profile
	switch i {
	case 0:
		if p.Role == "" {
			return p.Name
		}
		return p.Name + " · " + p.Role
	case 1:
		return p.Bio
	default:
		return ""
	}
}

func (m *model) consoleView() string {
	lines := m.consoleLines
	limit := consoleHeight
	if m.stage == stageConsole {
		limit--
	}
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	rendered := make([]string, 0, consoleHeight)
	for _, line := range lines {
		rendered = append(rendered, consoleStyle.Render(truncate.StringWithTail(line, uint(m.layout.viewportWidth), "…")))
	}
	if m.stage == stageConsole {
		rendered = append(rendered, m.console.View())
	}
	return strings.Join(rendered, "\n")
}

func (m *model) blogView() string {
	var b strings.Builder
	switch m.viewer.View() {
	case blog.ViewLoading:
		b.WriteString(sectionHeaderStyle.Render("~/blog"))
		b.WriteRune('\n')
		b.WriteString(fmt.Sprintf("%s Loading blog posts…", m.spinner.View()))
		b.WriteRune('\n')
		b.WriteString(helperStyle.Render("esc: back"))
	case blog.ViewList:
		b.WriteString(sectionHeaderStyle.Render("~/blog"))
		if idx := m.viewer.Index(); idx.FellBack() {
			b.WriteString(helperStyle.Render(fmt.Sprintf("  (sample data: index %s)", idx.Outcome)))
		}
		b.WriteRune('\n')
		b.WriteString(m.blogCardsView())
		b.WriteRune('\n')
		b.WriteString(helperStyle.Render("j/k: move • enter: read • r: reload • esc: back"))
	case blog.ViewDetail:
		post, _, _ := m.viewer.Current()
		b.WriteString(cardTitleStyle.Render(post.DisplayTitle()))
		b.WriteString(helperStyle.Render("  " + post.DisplayDate()))
		b.WriteRune('\n')
		if m.detailLoading {
			b.WriteString(fmt.Sprintf("%s Loading post…", m.spinner.View()))
		} else {
			b.WriteString(m.detail.View())
		}
		b.WriteRune('\n')
		b.WriteString(helperStyle.Render("↑/↓: scroll • esc: back to posts"))
	}
	return b.String()
}

func (m *model) blogCardsView() string {
	if m.viewer.Empty() {
		return cardMissingStyle.Render("No blog posts yet. Create blogs/blogIndex.json to add posts.")
	}
	wrap := m.wrapWidth(4)
	cards := m.viewer.Cards()
	rendered := make([]string, 0, len(cards))
	for i, card := range cards {
		preview := cardPreviewStyle.Render(wordwrap.String(card.Preview, wrap))
		if !card.HasPreview {
			preview = cardMissingStyle.Render(card.Preview)
		}
		body := lipgloss.JoinVertical(lipgloss.Left,
			cardTitleStyle.Render(card.Title),
			helperStyle.Render(card.Date),
			preview,
		)
		style := cardStyle
		if i == m.viewer.Cursor() {
			style = cardCursorStyle
		}
		rendered = append(rendered, style.Render(body))
	}
	return strings.Join(rendered, "\n")
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n")
}

func (m *model) sessionMeterView() string {
	stats := []string{m.stage.String()}
	if m.stage == stagePortfolio || m.stage == stageConsole {
		total := len(m.sectionIDs)
		stats = append(stats, fmt.Sprintf("revealed %d/%d", total-m.reveal.Pending(), total))
		if m.focus >= 0 && m.focus < len(m.bindings) {
			stats = append(stats, "focus "+m.bindings[m.focus].label)
		}
	}
	stats = append(stats, fmt.Sprintf("clicks %d", m.clicks.Count()))
	stats = append(stats, m.jobStatusBadges()...)
	if m.infoMessage != "" {
		stats = append(stats, m.infoMessage)
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	kinds := make([]string, 0, len(m.jobStatus))
	for kind := range m.jobStatus {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	badges := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		snap := m.jobStatus[jobKind(kind)]
		switch snap.Status {
		case jobStatusRunning:
			badges = append(badges, kind+" …")
		case jobStatusSucceeded:
			badges = append(badges, fmt.Sprintf("%s ✓ %s", kind, snap.Duration.Round(10*time.Millisecond)))
		case jobStatusFailed:
			badges = append(badges, kind+" ✗")
		}
	}
	return badges
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"↑/↓", "Scroll"},
		{"[/]", "Jump sections"},
		{"tab", "Focus next"},
		{"enter", "Toggle"},
		{"b", "Blog"},
		{":", "Console"},
		{"s", "Skip intro"},
		{"?", "Toggle cheatsheet"},
		{"q", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Navigation Cheatsheet")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(fmt.Sprintf(" %-16s", hint.Description))
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}
