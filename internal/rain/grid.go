package rain

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultGridFade is the share of intensity a terminal cell loses per frame.
// Terminals refresh far slower than a browser canvas, so trails fade faster.
const DefaultGridFade = 0.12

// minHeat is the intensity below which a cell renders blank.
const minHeat = 0.08

// Palette lists foreground colors from dimmest to brightest. The last entry
// is used for the leading glyph of each column.
type Palette []lipgloss.Color

var (
	// GreenPalette is the default phosphor look.
	GreenPalette = Palette{"22", "28", "34", "40", "46", "120"}
	// ShiftedPalette is used while the hue filter effect is active.
	ShiftedPalette = Palette{"53", "91", "129", "165", "201", "219"}
)

type gridCell struct {
	glyph rune
	heat  float64
}

// Grid is a terminal Surface where one cell is one glyph. Fading lowers the
// intensity of every cell instead of blending a translucent rectangle.
type Grid struct {
	width  int
	height int
	fade   float64
	cells  []gridCell
}

// NewGrid returns an empty grid of the given size in cells.
func NewGrid(width, height int) *Grid {
	g := &Grid{fade: DefaultGridFade}
	g.SetSize(width, height)
	return g
}

// SetSize reallocates the grid, dropping its contents.
func (g *Grid) SetSize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g.width = width
	g.height = height
	g.cells = make([]gridCell, width*height)
}

// Size implements Surface.
func (g *Grid) Size() (int, int) {
	return g.width, g.height
}

// Fade implements Surface.
func (g *Grid) Fade() {
	keep := 1 - g.fade
	for i := range g.cells {
		c := &g.cells[i]
		if c.heat == 0 {
			continue
		}
		c.heat *= keep
		if c.heat < minHeat {
			*c = gridCell{}
		}
	}
}

// DrawGlyph implements Surface. y is a baseline, so the glyph occupies the
// row above it; anything outside the grid is clipped.
func (g *Grid) DrawGlyph(x, y int, glyph rune) {
	row := y - 1
	if x < 0 || x >= g.width || row < 0 || row >= g.height {
		return
	}
	g.cells[row*g.width+x] = gridCell{glyph: glyph, heat: 1}
}

// Cell returns the glyph and intensity at a cell; blank cells report 0.
func (g *Grid) Cell(x, y int) (rune, float64) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return 0, 0
	}
	c := g.cells[y*g.width+x]
	return c.glyph, c.heat
}

// Render returns one styled string per row.
func (g *Grid) Render(palette Palette) []string {
	if len(palette) == 0 {
		palette = GreenPalette
	}
	styles := make([]lipgloss.Style, len(palette))
	for i, color := range palette {
		styles[i] = lipgloss.NewStyle().Foreground(color)
	}

	lines := make([]string, g.height)
	for y := 0; y < g.height; y++ {
		var (
			b       strings.Builder
			run     strings.Builder
			runTier = -1
		)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runTier < 0 {
				b.WriteString(run.String())
			} else {
				b.WriteString(styles[runTier].Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < g.width; x++ {
			c := g.cells[y*g.width+x]
			tier := -1
			glyph := ' '
			if c.heat > 0 {
				glyph = c.glyph
				tier = heatTier(c.heat, len(palette))
			}
			if tier != runTier {
				flush()
				runTier = tier
			}
			run.WriteRune(glyph)
		}
		flush()
		lines[y] = b.String()
	}
	return lines
}

func heatTier(heat float64, tiers int) int {
	if heat >= 1 {
		return tiers - 1
	}
	tier := int(heat * float64(tiers-1))
	if tier >= tiers-1 {
		tier = tiers - 2
	}
	if tier < 0 {
		tier = 0
	}
	return tier
}
