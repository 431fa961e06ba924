// Package rain implements the falling-glyph background animation.
//
// A Renderer owns one fall position per column of a Surface. Every Frame
// fades the surface, draws one random glyph per column at its current
// position and advances the column; columns that have fallen past the bottom
// edge restart from the top with a small probability.
package rain

import "math/rand/v2"

// DefaultAlphabet is the glyph set drawn by the renderer.
const DefaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ123456789@#$%^&*()"

// resetThreshold gates the restart of a column once it is past the bottom.
const resetThreshold = 0.975

// Rand is the randomness source used for glyph choice and column restarts.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Surface is anything the renderer can paint glyphs on. Coordinates are in
// surface units (pixels for images, cells for terminal grids) and y is the
// glyph baseline.
type Surface interface {
	Size() (width, height int)
	Fade()
	DrawGlyph(x, y int, glyph rune)
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// Renderer advances the per-column fall state and paints it on a Surface.
type Renderer struct {
	surface   Surface
	rnd       Rand
	glyphSize int
	alphabet  []rune
	width     int
	height    int
	drops     []int
}

// New sizes the renderer to the surface and starts every column at 1.
// A nil rnd uses the process-wide source.
func New(surface Surface, glyphSize int, rnd Rand) *Renderer {
	if glyphSize <= 0 {
		glyphSize = 1
	}
	if rnd == nil {
		rnd = globalRand{}
	}
	r := &Renderer{
		surface:   surface,
		rnd:       rnd,
		glyphSize: glyphSize,
		alphabet:  []rune(DefaultAlphabet),
	}
	r.Resize()
	return r
}

// SetAlphabet replaces the glyph set. Empty alphabets are ignored.
func (r *Renderer) SetAlphabet(alphabet string) {
	if runes := []rune(alphabet); len(runes) > 0 {
		r.alphabet = runes
	}
}

// Resize re-reads the surface dimensions and resets every column to 1.
func (r *Renderer) Resize() {
	r.width, r.height = r.surface.Size()
	columns := 0
	if r.width > 0 {
		columns = r.width / r.glyphSize
	}
	r.drops = make([]int, columns)
	for i := range r.drops {
		r.drops[i] = 1
	}
}

// Columns reports how many columns the renderer tracks.
func (r *Renderer) Columns() int {
	return len(r.drops)
}

// Drops returns a copy of the current fall positions, in glyph units.
func (r *Renderer) Drops() []int {
	return append([]int(nil), r.drops...)
}

// Frame renders one animation step.
func (r *Renderer) Frame() {
	r.surface.Fade()
	for i := range r.drops {
		glyph := r.alphabet[r.rnd.IntN(len(r.alphabet))]
		r.surface.DrawGlyph(i*r.glyphSize, r.drops[i]*r.glyphSize, glyph)

		if r.drops[i]*r.glyphSize > r.height && r.rnd.Float64() > resetThreshold {
			r.drops[i] = 0
		}
		r.drops[i]++
	}
}
