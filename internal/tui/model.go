package tui

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/csheth/termfolio/internal/blog"
	"github.com/csheth/termfolio/internal/content"
	"github.com/csheth/termfolio/internal/easter"
	"github.com/csheth/termfolio/internal/panel"
	"github.com/csheth/termfolio/internal/rain"
	"github.com/csheth/termfolio/internal/reveal"
	"github.com/csheth/termfolio/internal/typing"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Profile *content.Profile
	Blog    blog.Source
	// CacheDir holds remote post files; empty uses blog.DefaultCacheDir.
	CacheDir     string
	LoadingDelay time.Duration
	TypingScale  float64
	Logger       *log.Logger
	// Rand and Now are replaced in tests.
	Rand rain.Rand
	Now  func() time.Time
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Profile == nil {
		config.Profile = content.Default()
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.LoadingDelay < 0 {
		config.LoadingDelay = 0
	}

	layout := newPageLayout()
	grid := rain.NewGrid(layout.windowWidth, layout.rainHeight)

	vp := viewport.New(layout.viewportWidth, layout.viewportHeight)
	vp.MouseWheelEnabled = true
	detail := viewport.New(layout.viewportWidth, layout.viewportHeight)
	detail.MouseWheelEnabled = true

	consoleInput := textinput.New()
	consoleInput.Prompt = "> "
	consoleInput.Placeholder = "showSecrets()"
	consoleInput.CharLimit = 64
	consoleInput.Width = 40

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	now := config.Now()
	m := &model{
		config:         config,
		logger:         config.Logger,
		stage:          stagePortfolio,
		layout:         layout,
		grid:           grid,
		renderer:       rain.New(grid, 1, config.Rand),
		viewport:       vp,
		detail:         detail,
		console:        consoleInput,
		spinner:        spin,
		script:         typing.NewScript(typing.DefaultIntro, config.TypingScale),
		started:        now,
		now:            now,
		reveal:         reveal.New(),
		skills:         panel.NewSkills(config.Profile.SkillNames()...),
		projects:       panel.NewProjects(len(config.Profile.Projects)),
		sectionIDs:     config.Profile.SectionIDs(),
		focus:          -1,
		viewer:         blog.NewViewer(),
		resolver:       blog.NewResolver(config.Blog, config.CacheDir),
		effect:         easter.NewEffect(nil),
		jobs:           newJobBus(config.Logger),
		jobStatus:      map[jobKind]jobSnapshot{},
		sectionAnchors: map[string]int{},
		bindingLines:   map[int]int{},
		viewportDirty:  true,
	}
	m.bindings = buildBindings(config.Profile)
	m.printConsole(easter.Welcome(config.Profile.Name)...)
	return m
}

// buildBindings lists the focusable items once, from the sections the
// profile actually has.
func buildBindings(p *content.Profile) []binding {
	var out []binding
	for _, id := range p.SectionIDs() {
		switch id {
		case content.SectionSkills:
			for _, s := range p.Skills {
				out = append(out, binding{kind: bindSkill, section: id, skill: s.Name, label: s.Name})
			}
		case content.SectionProjects:
			for i, proj := range p.Projects {
				out = append(out, binding{kind: bindProject, section: id, project: i, label: proj.Name})
			}
		}
	}
	return out
}

type model struct {
	config Config
	logger *log.Logger
	stage  stage
	// returnStage is restored when the console prompt closes.
	returnStage stage
	layout      pageLayout

	grid      *rain.Grid
	renderer  *rain.Renderer
	resizeSeq int

	viewport viewport.Model
	detail   viewport.Model
	console  textinput.Model
	spinner  spinner.Model

	script  *typing.Script
	started time.Time
	now     time.Time

	reveal   *reveal.Controller
	skills   *panel.Skills
	projects *panel.Projects

	sectionIDs      []string
	sectionAnchors  map[string]int
	bindings        []binding
	bindingLines    map[int]int
	focus           int
	viewportContent string
	viewportDirty   bool
	lineCount       int

	viewer         *blog.Viewer
	resolver       *blog.Resolver
	indexRequested bool
	detailLoading  bool
	detailErr      error

	konami       easter.Konami
	clicks       easter.Clicks
	effect       *easter.Effect
	consoleLines []string

	jobs      *jobBus
	jobStatus map[jobKind]jobSnapshot

	infoMessage  string
	errorMessage string
	helpVisible  bool
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *model) Init() tea.Cmd {
	m.logger.Info("termfolio started", "profile", m.config.Profile.Handle, "sections", len(m.sectionIDs))
	return frameCmd()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.handleFrame(time.Time(msg))
		return m, frameCmd()
	case resizeMsg:
		if msg.seq != m.resizeSeq {
			return m, nil
		}
		resizeRain(m.renderer, m.grid, msg.width, msg.height)
		m.logger.Debug("rain resized", "width", msg.width, "height", msg.height, "columns", m.renderer.Columns())
		return m, nil
	case spinner.TickMsg:
		if m.blogBusy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		m.jobStatus[msg.Snapshot.Kind] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		if msg.Snapshot.Status == jobStatusSuperseded {
			return m, nil
		}
		m.jobStatus[msg.Snapshot.Kind] = msg.Snapshot
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case indexLoadedMsg:
		m.handleIndexLoaded(msg.index)
		return m, nil
	case postLoadedMsg:
		m.handlePostLoaded(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		return m, m.applyWindowSize(msg.Width, msg.Height)
	}
	return m, nil
}

// resizeRain is the only path that changes the rain surface size.
func resizeRain(r *rain.Renderer, g *rain.Grid, width, height int) {
	g.SetSize(width, height)
	r.Resize()
}

func (m *model) applyWindowSize(width, height int) tea.Cmd {
	m.layout.Update(width, height)
	m.viewport.Width = m.layout.viewportWidth
	m.viewport.Height = m.layout.viewportHeight
	m.detail.Width = m.layout.viewportWidth
	detailHeight := height - m.layout.rainHeight - consoleHeight - 6
	if detailHeight < 5 {
		detailHeight = 5
	}
	m.detail.Height = detailHeight
	m.markViewportDirty()

	m.resizeSeq++
	resize := resizeMsg{seq: m.resizeSeq, width: width, height: m.layout.rainHeight}
	return tea.Tick(resizeDebounce, func(time.Time) tea.Msg {
		return resize
	})
}

func (m *model) handleFrame(now time.Time) {
	delta := now.Sub(m.now)
	m.now = now
	m.renderer.Frame()
	if m.effect.Active(now) {
		width, height := m.grid.Size()
		for _, pt := range m.effect.Positions(now, width, height) {
			m.grid.DrawGlyph(pt.X, pt.Y+1, particleGlyph)
		}
	}
	m.script.Advance(delta)
}

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.MouseLeft {
		if m.clicks.Click() {
			m.printConsole(easter.AnswerMessage)
		}
	}
	var cmd tea.Cmd
	switch {
	case m.stage == stagePortfolio:
		m.viewport, cmd = m.viewport.Update(msg)
		m.updateReveal()
	case m.stage == stageBlog && m.viewer.View() == blog.ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	}
	return m, cmd
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.stage == stageConsole {
		return m.handleConsoleKey(key)
	}
	if m.konami.Feed(strings.ToLower(key.String())) {
		m.activateMatrix()
	}
	switch key.String() {
	case "q":
		return m.quit()
	case ":":
		m.openConsole()
		return m, textinput.Blink
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	}
	if m.stage == stageBlog {
		return m.handleBlogKey(key)
	}
	return m.handlePortfolioKey(key)
}

func (m *model) quit() (tea.Model, tea.Cmd) {
	m.jobs.CancelAll()
	m.logger.Info("termfolio quitting", "clicks", m.clicks.Count())
	return m, tea.Quit
}

func (m *model) handlePortfolioKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.refreshViewportIfDirty()
	switch key.String() {
	case "up", "k":
		m.viewport.LineUp(1)
	case "down", "j":
		m.viewport.LineDown(1)
	case "pgup":
		m.viewport.ViewUp()
	case "pgdown":
		m.viewport.ViewDown()
	case "g", "home":
		m.viewport.GotoTop()
		m.infoMessage = "Jumped to top."
	case "G", "end":
		m.viewport.GotoBottom()
		m.infoMessage = "Jumped to bottom."
	case "tab":
		m.moveFocus(1)
	case "shift+tab":
		m.moveFocus(-1)
	case "enter", " ":
		m.activateFocus()
	case "[":
		m.jumpToRelativeSection(-1)
	case "]":
		m.jumpToRelativeSection(1)
	case "s":
		m.script.Skip()
	case "esc":
		m.helpVisible = false
	case "b":
		// b is the ninth konami key; only open the blog when it is not
		// completing the sequence prefix.
		if m.konami.Progress() == len(easter.KonamiSequence)-1 {
			return m, nil
		}
		return m, m.openBlog()
	default:
		return m, nil
	}
	m.updateReveal()
	return m, nil
}

func (m *model) handleBlogKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.viewer.View() {
	case blog.ViewLoading:
		if k := key.String(); k == "esc" || k == "backspace" {
			m.stage = stagePortfolio
		}
		return m, nil
	case blog.ViewList:
		switch key.String() {
		case "up", "k":
			m.viewer.Move(-1)
		case "down", "j":
			m.viewer.Move(1)
		case "enter":
			return m, m.openPost()
		case "r":
			return m, m.startIndexLoad()
		case "esc", "backspace":
			m.stage = stagePortfolio
		}
		return m, nil
	case blog.ViewDetail:
		switch key.String() {
		case "esc", "backspace":
			m.viewer.Back()
			m.detailLoading = false
			m.detailErr = nil
		case "up", "k":
			m.detail.LineUp(1)
		case "down", "j":
			m.detail.LineDown(1)
		case "pgup":
			m.detail.ViewUp()
		case "pgdown", " ":
			m.detail.ViewDown()
		}
		return m, nil
	}
	return m, nil
}

func (m *model) handleConsoleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.closeConsole()
		return m, nil
	case tea.KeyEnter:
		input := m.console.Value()
		m.closeConsole()
		m.runConsole(input)
		return m, nil
	}
	var cmd tea.Cmd
	m.console, cmd = m.console.Update(key)
	return m, cmd
}

func (m *model) openConsole() {
	m.returnStage = m.stage
	m.stage = stageConsole
	m.console.SetValue("")
	m.console.Focus()
}

func (m *model) closeConsole() {
	m.console.SetValue("")
	m.console.Blur()
	m.stage = m.returnStage
}

func (m *model) activateMatrix() {
	m.effect.Activate(m.now)
	m.printConsole(easter.ActivatedMessage)
	m.logger.Info("matrix mode activated", "until", m.now.Add(easter.EffectDuration).Format(time.Kitchen))
}

func (m *model) moveFocus(delta int) {
	if len(m.bindings) == 0 {
		m.infoMessage = "Nothing to focus on this page."
		return
	}
	n := len(m.bindings)
	if m.focus < 0 {
		if delta > 0 {
			m.focus = 0
		} else {
			m.focus = n - 1
		}
	} else {
		m.focus = ((m.focus+delta)%n + n) % n
	}
	m.markViewportDirty()
	m.refreshViewportIfDirty()
	m.ensureFocusVisible()
	m.infoMessage = fmt.Sprintf("Focused %s.", m.bindings[m.focus].label)
}

func (m *model) ensureFocusVisible() {
	line, ok := m.bindingLines[m.focus]
	if !ok {
		return
	}
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.clampYOffset(line - m.viewport.Height + 1))
	}
}

func (m *model) activateFocus() {
	if m.focus < 0 || m.focus >= len(m.bindings) {
		m.infoMessage = "Press tab to focus a skill group or project."
		return
	}
	b := m.bindings[m.focus]
	switch b.kind {
	case bindSkill:
		if m.skills.Toggle(b.skill) {
			m.infoMessage = fmt.Sprintf("Collapsed %s.", b.label)
		} else {
			m.infoMessage = fmt.Sprintf("Expanded %s.", b.label)
		}
	case bindProject:
		m.projects.Activate(b.project)
		if m.projects.IsExpanded(b.project) {
			m.infoMessage = fmt.Sprintf("Opened %s.", b.label)
		} else {
			m.infoMessage = fmt.Sprintf("Closed %s.", b.label)
		}
	}
	m.markViewportDirty()
	m.refreshViewportIfDirty()
}

func (m *model) jumpToRelativeSection(delta int) {
	if len(m.sectionIDs) == 0 {
		m.infoMessage = "No sections available."
		return
	}
	current := m.viewport.YOffset
	if delta > 0 {
		for _, id := range m.sectionIDs {
			if m.sectionAnchors[id] > current {
				m.jumpToSection(id)
				return
			}
		}
		m.infoMessage = "Already at the last section."
		return
	}
	for i := len(m.sectionIDs) - 1; i >= 0; i-- {
		id := m.sectionIDs[i]
		if m.sectionAnchors[id] < current {
			m.jumpToSection(id)
			return
		}
	}
	m.infoMessage = "Already at the first section."
}

func (m *model) jumpToSection(id string) {
	line, ok := m.sectionAnchors[id]
	if !ok {
		m.infoMessage = "Section unavailable."
		return
	}
	m.viewport.SetYOffset(m.clampYOffset(line))
	m.infoMessage = fmt.Sprintf("Jumped to %s.", content.SectionTitle(id))
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if m.viewportDirty {
		m.refreshViewport()
	}
}

func (m *model) refreshViewport() {
	m.viewportDirty = false
	prevYOffset := m.viewport.YOffset
	view := m.buildDisplayContent()
	for _, id := range m.sectionIDs {
		m.reveal.Observe(id, view.anchors[id], view.heights[id])
	}
	m.applyDisplayView(view)
	m.viewport.SetYOffset(m.clampYOffset(prevYOffset))
	m.updateReveal()
}

func (m *model) applyDisplayView(view displayView) {
	m.viewportContent = view.content
	m.sectionAnchors = view.anchors
	m.bindingLines = view.bindingLines
	m.lineCount = len(splitLinesPreserve(view.content))
	m.viewport.SetContent(view.content)
}

// updateReveal latches sections that entered the viewport and redraws them
// at full intensity.
func (m *model) updateReveal() {
	revealed := m.reveal.Update(m.viewport.YOffset, m.viewport.Height)
	if len(revealed) == 0 {
		return
	}
	m.logger.Debug("sections revealed", "ids", revealed)
	offset := m.viewport.YOffset
	m.applyDisplayView(m.buildDisplayContent())
	m.viewport.SetYOffset(m.clampYOffset(offset))
}

func (m *model) openBlog() tea.Cmd {
	m.stage = stageBlog
	if !m.indexRequested {
		return m.startIndexLoad()
	}
	return nil
}

func (m *model) startIndexLoad() tea.Cmd {
	m.viewer.Loading()
	m.indexRequested = true
	m.logger.Debug("loading blog index", "location", m.config.Blog.Location, "delay", m.config.LoadingDelay)
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindIndex, loadIndexJob(m.config.Blog, m.config.LoadingDelay)))
}

func (m *model) openPost() tea.Cmd {
	post, ok := m.viewer.OpenCursor()
	if !ok {
		return nil
	}
	m.detailLoading = true
	m.detailErr = nil
	m.detail.SetContent("")
	m.detail.GotoTop()
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindPost, loadPostJob(m.resolver, post, m.viewer.Cursor(), m.detail.Width)))
}

func (m *model) blogBusy() bool {
	return m.stage == stageBlog && (m.viewer.View() == blog.ViewLoading || m.detailLoading)
}

func (m *model) handleIndexLoaded(idx blog.Index) {
	m.viewer.SetIndex(idx)
	switch {
	case idx.FellBack():
		m.logger.Warn("blog index unavailable, using sample data", "outcome", idx.Outcome, "err", idx.Err)
		m.printConsole(
			"📁 Blog index file not available, using sample data",
			"💡 To add your own blogs: Create blogs/blogIndex.json with your post metadata",
		)
	case len(idx.Posts) == 0:
		m.printConsole("📝 No blog posts found. Create blogs/blogIndex.json to add posts.")
	default:
		m.logger.Info("blog index loaded", "posts", len(idx.Posts))
		m.printConsole(fmt.Sprintf("✅ External blog index loaded: %d posts found", len(idx.Posts)))
	}
}

func (m *model) handlePostLoaded(msg postLoadedMsg) {
	if _, idx, ok := m.viewer.Current(); !ok || idx != msg.index {
		return
	}
	m.detailLoading = false
	m.detailErr = msg.err
	m.detail.SetContent(msg.rendered)
	m.detail.GotoTop()
	if msg.err != nil {
		m.logger.Error("blog content unavailable", "post", msg.title, "err", msg.err)
		m.printConsole("❌ " + msg.err.Error())
		return
	}
	m.logger.Debug("blog content displayed", "post", msg.title, "origin", msg.origin)
	m.printConsole("✅ Blog content displayed: " + msg.title)
}

var ansiEscapeCodes = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

func stripANSI(text string) string {
	return ansiEscapeCodes.ReplaceAllString(text, "")
}

const particleGlyph = '*'

var (
	heroAccentColor = lipgloss.Color("#00ff41")
	heroCyanColor   = lipgloss.Color("#00ffff")
	heroDimColor    = lipgloss.Color("#5c6370")
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	itemTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e0def4"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	pendingStyle       = lipgloss.NewStyle().Faint(true).Foreground(heroDimColor)
	focusStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(heroAccentColor)
	linkStyle          = lipgloss.NewStyle().Foreground(heroCyanColor).Underline(true)
	promptStyle        = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	commandStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	outputStyle        = lipgloss.NewStyle().Foreground(heroCyanColor)
	taglineStyle       = lipgloss.NewStyle().Foreground(heroDimColor).Italic(true)
	consoleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#9d4edd"))
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(heroAccentColor).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	cardStyle          = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(heroDimColor).PaddingLeft(1)
	cardCursorStyle    = cardStyle.Copy().BorderForeground(heroAccentColor)
	cardTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	cardPreviewStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0c0c0"))
	cardMissingStyle   = lipgloss.NewStyle().Italic(true).Foreground(heroDimColor)
)
