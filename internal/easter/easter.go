// Package easter holds the cosmetic extras: the konami sequence, the click
// counter, the hue-shift effect with falling particles, and the console
// banners.
package easter

import (
	"math/rand/v2"
	"time"
)

// Key names fed to Konami. Anything else is an unrelated key.
const (
	KeyUp    = "up"
	KeyDown  = "down"
	KeyLeft  = "left"
	KeyRight = "right"
	KeyB     = "b"
	KeyA     = "a"
)

// KonamiSequence is the reference sequence ↑ ↑ ↓ ↓ ← → ← → B A.
var KonamiSequence = []string{KeyUp, KeyUp, KeyDown, KeyDown, KeyLeft, KeyRight, KeyLeft, KeyRight, KeyB, KeyA}

// Konami compares the most recent key presses against KonamiSequence.
type Konami struct {
	window []string
}

// Feed records one key press and reports whether the last len(KonamiSequence)
// presses match the reference sequence exactly.
func (k *Konami) Feed(key string) bool {
	k.window = append(k.window, key)
	if len(k.window) > len(KonamiSequence) {
		k.window = k.window[len(k.window)-len(KonamiSequence):]
	}
	if len(k.window) != len(KonamiSequence) {
		return false
	}
	for i, want := range KonamiSequence {
		if k.window[i] != want {
			return false
		}
	}
	return true
}

// Progress reports how many leading keys of KonamiSequence the most recent
// presses spell out. A full match reports len(KonamiSequence).
func (k *Konami) Progress() int {
	n := len(k.window)
	if n > len(KonamiSequence) {
		n = len(KonamiSequence)
	}
	for ; n > 0; n-- {
		tail := k.window[len(k.window)-n:]
		match := true
		for i, want := range KonamiSequence[:n] {
			if tail[i] != want {
				match = false
				break
			}
		}
		if match {
			return n
		}
	}
	return 0
}

// AnswerClicks is the click count that earns the console message.
const AnswerClicks = 42

// Clicks counts pointer presses.
type Clicks struct {
	count int
}

// Click records a press and reports whether this was press number AnswerClicks.
func (c *Clicks) Click() bool {
	c.count++
	return c.count == AnswerClicks
}

// Count returns the total number of presses.
func (c *Clicks) Count() int {
	return c.count
}

const (
	// EffectDuration is how long the hue filter stays on.
	EffectDuration = 10 * time.Second
	// ParticleCount is spawned per activation.
	ParticleCount   = 50
	minParticleFall = 2 * time.Second
	maxParticleFall = 5 * time.Second
)

// Particle falls from above the top edge to below the bottom edge and is
// discarded when its fall completes.
type Particle struct {
	// Column is a fraction of the surface width in [0,1).
	Column   float64
	Born     time.Time
	Duration time.Duration
}

// Progress returns how far through its fall the particle is, in [0,1].
func (p Particle) Progress(now time.Time) float64 {
	if p.Duration <= 0 {
		return 1
	}
	f := float64(now.Sub(p.Born)) / float64(p.Duration)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Expired reports whether the fall has completed.
func (p Particle) Expired(now time.Time) bool {
	return !now.Before(p.Born.Add(p.Duration))
}

// Point is a particle position in surface cells.
type Point struct {
	X, Y int
}

// Effect is the hue-shift filter plus its particles.
type Effect struct {
	until     time.Time
	particles []Particle
	rnd       func() float64
}

// NewEffect returns an inactive effect. A nil source uses math/rand/v2.
func NewEffect(source func() float64) *Effect {
	if source == nil {
		source = rand.Float64
	}
	return &Effect{rnd: source}
}

// Activate turns the filter on for EffectDuration and adds ParticleCount
// particles with fall times between two and five seconds.
func (e *Effect) Activate(now time.Time) {
	e.until = now.Add(EffectDuration)
	for i := 0; i < ParticleCount; i++ {
		fall := minParticleFall + time.Duration(e.rnd()*float64(maxParticleFall-minParticleFall))
		e.particles = append(e.particles, Particle{
			Column:   e.rnd(),
			Born:     now,
			Duration: fall,
		})
	}
}

// Active reports whether the filter is on.
func (e *Effect) Active(now time.Time) bool {
	return now.Before(e.until)
}

// Particles drops expired particles and returns the live ones.
func (e *Effect) Particles(now time.Time) []Particle {
	live := e.particles[:0]
	for _, p := range e.particles {
		if !p.Expired(now) {
			live = append(live, p)
		}
	}
	e.particles = live
	return append([]Particle(nil), live...)
}

// Positions maps live particles onto a width x height grid. A particle
// starts one row above the top and ends one row below the bottom, so it is
// only reported while inside the grid.
func (e *Effect) Positions(now time.Time, width, height int) []Point {
	if width <= 0 || height <= 0 {
		return nil
	}
	var points []Point
	for _, p := range e.Particles(now) {
		y := int(p.Progress(now)*float64(height+2)) - 1
		if y < 0 || y >= height {
			continue
		}
		x := int(p.Column * float64(width))
		if x >= width {
			x = width - 1
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points
}

// Welcome is printed to the console when the program starts.
func Welcome(name string) []string {
	return []string{
		"$ welcome to " + name + "'s terminal!",
		"Try typing: showSecrets()",
	}
}

// Secrets is the output of the showSecrets hook.
func Secrets() []string {
	return []string{
		"🎮 Konami Code: ↑↑↓↓←→←→BA",
		"🚀 Matrix Mode Available!",
		"💻 Built with love and caffeine",
		"📝 Blog system ready for your posts!",
	}
}

// Messages printed by the ambient handlers.
const (
	AnswerMessage    = "🎉 The Answer to Life, Universe and Everything!"
	ActivatedMessage = "🎊 MATRIX MODE ACTIVATED! 🎊"
)
