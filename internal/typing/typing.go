// Package typing reveals text one character at a time.
//
// Nothing here owns a timer. A Typewriter is advanced either one character
// at a time with Step or by elapsed wall time with Tick, so the caller's
// single frame tick drives every effect.
package typing

import "time"

// Typewriter reveals Text rune by rune.
type Typewriter struct {
	text   []rune
	delay  time.Duration
	index  int
	typing bool
	due    time.Duration
}

// New returns an idle typewriter for text with a per-character delay.
func New(text string, delay time.Duration) *Typewriter {
	return &Typewriter{text: []rune(text), delay: delay}
}

// Start clears the revealed buffer and begins typing. An empty source
// completes immediately.
func (w *Typewriter) Start() {
	w.index = 0
	w.due = 0
	w.typing = len(w.text) > 0
}

// Step appends one character and reports whether more remain. It is a no-op
// once the source is exhausted.
func (w *Typewriter) Step() bool {
	if !w.typing {
		return false
	}
	w.index++
	if w.index >= len(w.text) {
		w.typing = false
	}
	return w.typing
}

// Tick advances by elapsed time. The first character appears as soon as
// typing starts, later ones every Delay.
func (w *Typewriter) Tick(elapsed time.Duration) {
	if !w.typing {
		return
	}
	if w.delay <= 0 {
		for w.Step() {
		}
		return
	}
	w.due -= elapsed
	for w.typing && w.due <= 0 {
		w.Step()
		w.due += w.delay
	}
}

// Finish reveals the whole string at once.
func (w *Typewriter) Finish() {
	w.index = len(w.text)
	w.typing = false
}

// Current returns the revealed prefix.
func (w *Typewriter) Current() string {
	return string(w.text[:w.index])
}

// Typing reports whether characters are still being appended.
func (w *Typewriter) Typing() bool {
	return w.typing
}

// Done reports whether the whole source has been revealed.
func (w *Typewriter) Done() bool {
	return !w.typing && w.index == len(w.text)
}
