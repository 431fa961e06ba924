package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/termfolio/internal/content"
)

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
	rainHeight     int
}

func newPageLayout() pageLayout {
	return pageLayout{
		windowWidth:    80,
		windowHeight:   24,
		viewportWidth:  76,
		viewportHeight: 9,
		rainHeight:     4,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	l.rainHeight = height / 6
	if l.rainHeight < 3 {
		l.rainHeight = 3
	}
	if l.rainHeight > 8 {
		l.rainHeight = 8
	}
	const footerStatusHeight = 1
	const separators = 2
	usable := height - l.rainHeight - heroHeight - consoleHeight - footerStatusHeight - separators
	if usable < 6 {
		usable = 6
	}
	l.viewportHeight = usable
}

type displayView struct {
	content      string
	anchors      map[string]int
	heights      map[string]int
	bindingLines map[int]int
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

// buildDisplayContent renders every present section. Sections that have not
// been revealed yet are drawn faint; styling never changes line counts, so
// anchors stay valid across reveals.
func (m *model) buildDisplayContent() displayView {
	cb := &contentBuilder{}
	view := displayView{
		anchors:      map[string]int{},
		heights:      map[string]int{},
		bindingLines: map[int]int{},
	}
	for _, id := range m.sectionIDs {
		if cb.Line() > 0 {
			cb.WriteRune('\n')
		}
		start := cb.Line()
		section := &contentBuilder{}
		rel := map[int]int{}
		m.writeSection(section, id, rel)

		body := section.String()
		if !m.reveal.Visible(id) {
			body = fadeLines(body)
		}
		view.anchors[id] = start
		cb.WriteString(body)
		view.heights[id] = cb.Line() - start
		for idx, line := range rel {
			view.bindingLines[idx] = start + line
		}
	}
	view.content = cb.String()
	return view
}

func (m *model) writeSection(cb *contentBuilder, id string, bindingLines map[int]int) {
	p := m.config.Profile
	wrap := m.wrapWidth(4)
	cb.WriteString(sectionHeaderStyle.Render("~/" + content.SectionTitle(id)))
	cb.WriteRune('\n')

	switch id {
	case content.SectionAbout:
		for _, para := range p.About {
			cb.WriteString(indentMultiline(wordwrap.String(para, wrap), "  "))
			cb.WriteRune('\n')
		}
	case content.SectionExperience:
		for _, exp := range p.Experience {
			head := fmt.Sprintf("▸ %s", exp.Title)
			if exp.Company != "" {
				head += " @ " + exp.Company
			}
			cb.WriteString(itemTitleStyle.Render(head))
			if exp.Period != "" {
				cb.WriteString(helperStyle.Render("  " + exp.Period))
			}
			cb.WriteRune('\n')
			m.writeBullets(cb, exp.Points, wrap)
		}
	case content.SectionSkills:
		for _, cat := range p.Skills {
			idx := m.bindingIndex(bindSkill, cat.Name, 0)
			bindingLines[idx] = cb.Line()
			label := fmt.Sprintf("%s %s", m.skills.Icon(cat.Name), cat.Name)
			cb.WriteString(m.focusable(idx, label))
			cb.WriteRune('\n')
			if !m.skills.Collapsed(cat.Name) {
				cb.WriteString(indentMultiline(wordwrap.String(strings.Join(cat.Items, " · "), wrap), "    "))
				cb.WriteRune('\n')
			}
		}
	case content.SectionProjects:
		for i, proj := range p.Projects {
			idx := m.bindingIndex(bindProject, "", i)
			bindingLines[idx] = cb.Line()
			marker := "[+]"
			if m.projects.IsExpanded(i) {
				marker = "[-]"
			}
			cb.WriteString(m.focusable(idx, fmt.Sprintf("%s %s", marker, proj.Name)))
			cb.WriteString(helperStyle.Render("  " + proj.Summary))
			cb.WriteRune('\n')
			if !m.projects.IsExpanded(i) {
				continue
			}
			m.writeBullets(cb, proj.Details, wrap)
			if len(proj.Tech) > 0 {
				cb.WriteString(helperStyle.Render("    tech: " + strings.Join(proj.Tech, ", ")))
				cb.WriteRune('\n')
			}
			if proj.URL != "" {
				cb.WriteString(linkStyle.Render("    " + proj.URL))
				cb.WriteRune('\n')
			}
		}
	case content.SectionAchievements:
		for _, a := range p.Achievements {
			cb.WriteString(itemTitleStyle.Render("★ " + a.Title))
			if a.Detail != "" {
				cb.WriteString(helperStyle.Render("  " + a.Detail))
			}
			cb.WriteRune('\n')
		}
	case content.SectionContact:
		for _, c := range p.Contacts {
			cb.WriteString(fmt.Sprintf("  %-10s %s", c.Label, linkStyle.Render(c.Value)))
			cb.WriteRune('\n')
		}
	}
}

func (m *model) writeBullets(cb *contentBuilder, items []string, wrap int) {
	for _, item := range items {
		cb.WriteString("   • ")
		cb.WriteString(indentContinuation(wordwrap.String(item, wrap-5), "     "))
		cb.WriteRune('\n')
	}
}

func (m *model) focusable(idx int, label string) string {
	if idx == m.focus {
		return focusStyle.Render("› " + label)
	}
	return "  " + label
}

func (m *model) bindingIndex(kind bindingKind, skill string, project int) int {
	for i, b := range m.bindings {
		if b.kind != kind {
			continue
		}
		if kind == bindSkill && b.skill == skill {
			return i
		}
		if kind == bindProject && b.project == project {
			return i
		}
	}
	return -1
}

func fadeLines(text string) string {
	if text == "" {
		return text
	}
	trailing := strings.HasSuffix(text, "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = pendingStyle.Render(stripANSI(line))
	}
	out := strings.Join(lines, "\n")
	if trailing {
		out += "\n"
	}
	return out
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func indentContinuation(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func (m *model) clampYOffset(offset int) int {
	maxOffset := m.lineCount - m.viewport.Height
	if m.viewport.Height <= 0 {
		maxOffset = m.lineCount - 1
	}
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset < 0 {
		return 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}

func splitLinesPreserve(content string) []string {
	if content == "" {
		return []string{""}
	}
	return strings.Split(content, "\n")
}
