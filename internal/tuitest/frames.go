package tuitest

import (
	"regexp"
	"strings"
)

// Frame is one repaint with escape sequences removed in Plain.
type Frame struct {
	Index int
	ANSI  string
	Plain string
}

var (
	// A repaint starts by clearing the screen or by moving the cursor back
	// up over the previous frame.
	repaintMarker = regexp.MustCompile(`\x1b\[[0-9;]*J|\x1b\[[0-9]*A`)
	csiPattern    = regexp.MustCompile(`\x1b\[[0-9;?<>=]*[ -/]*[@-~]`)
	oscPattern    = regexp.MustCompile(`\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)
)

func parseFrames(raw []byte) []Frame {
	text := strings.ReplaceAll(string(raw), "\r", "")
	var frames []Frame
	for _, segment := range repaintMarker.Split(text, -1) {
		plain := normalizeLines(StripANSI(segment))
		if strings.TrimSpace(plain) == "" {
			continue
		}
		frames = append(frames, Frame{Index: len(frames), ANSI: segment, Plain: plain})
	}
	return frames
}

// FinalFrame returns the last repaint. ok is false when nothing was drawn.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// StripANSI removes CSI and OSC sequences plus charset shifts.
func StripANSI(s string) string {
	s = oscPattern.ReplaceAllString(s, "")
	s = csiPattern.ReplaceAllString(s, "")
	return strings.NewReplacer("\x0e", "", "\x0f", "", "\x00", "").Replace(s)
}

func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n ")
}
