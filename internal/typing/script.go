package typing

import "time"

// Cue is one typed command of the hero intro.
type Cue struct {
	Command string
	// At is when typing starts, measured from the start of the script.
	At time.Duration
	// Speed is the per-character delay.
	Speed time.Duration
	// OutputAfter is how long after At the command output is shown.
	OutputAfter time.Duration
}

// DefaultIntro is the hero sequence: whoami, then cat bio.txt.
var DefaultIntro = []Cue{
	{Command: "whoami", At: time.Second, Speed: 150 * time.Millisecond, OutputAfter: 2 * time.Second},
	{Command: "cat bio.txt", At: 4 * time.Second, Speed: 120 * time.Millisecond, OutputAfter: 1500 * time.Millisecond},
}

// Line is the view state of one cue.
type Line struct {
	Command       string
	Typed         string
	Started       bool
	Typing        bool
	OutputVisible bool
}

type cueState struct {
	cue     Cue
	writer  *Typewriter
	started bool
	output  bool
}

// Script replaces a chain of nested timers with one state object that is
// advanced by the caller's tick.
type Script struct {
	elapsed time.Duration
	cues    []*cueState
}

// NewScript builds a script. scale stretches every timing; values <= 0 mean 1.
func NewScript(cues []Cue, scale float64) *Script {
	if scale <= 0 {
		scale = 1
	}
	s := &Script{}
	for _, cue := range cues {
		cue.At = scaleDuration(cue.At, scale)
		cue.Speed = scaleDuration(cue.Speed, scale)
		cue.OutputAfter = scaleDuration(cue.OutputAfter, scale)
		s.cues = append(s.cues, &cueState{cue: cue, writer: New(cue.Command, cue.Speed)})
	}
	return s
}

func scaleDuration(d time.Duration, scale float64) time.Duration {
	return time.Duration(float64(d) * scale)
}

// Advance moves the script forward by elapsed.
func (s *Script) Advance(elapsed time.Duration) {
	if elapsed < 0 {
		return
	}
	s.elapsed += elapsed
	for _, c := range s.cues {
		if !c.started && s.elapsed >= c.cue.At {
			c.started = true
			c.writer.Start()
			// Credit only the time spent after the cue fired.
			c.writer.Tick(s.elapsed - c.cue.At)
		} else if c.started {
			c.writer.Tick(elapsed)
		}
		if c.started && !c.output && s.elapsed >= c.cue.At+c.cue.OutputAfter {
			c.output = true
		}
	}
}

// Skip jumps to the end state.
func (s *Script) Skip() {
	for _, c := range s.cues {
		c.started = true
		c.writer.Finish()
		c.output = true
	}
	if end := s.end(); s.elapsed < end {
		s.elapsed = end
	}
}

func (s *Script) end() time.Duration {
	var end time.Duration
	for _, c := range s.cues {
		if t := c.cue.At + c.cue.OutputAfter; t > end {
			end = t
		}
	}
	return end
}

// Lines returns the current state of each cue.
func (s *Script) Lines() []Line {
	lines := make([]Line, len(s.cues))
	for i, c := range s.cues {
		lines[i] = Line{
			Command:       c.cue.Command,
			Typed:         c.writer.Current(),
			Started:       c.started,
			Typing:        c.writer.Typing(),
			OutputVisible: c.output,
		}
	}
	return lines
}

// Finished reports whether every command is typed and every output shown.
func (s *Script) Finished() bool {
	for _, c := range s.cues {
		if !c.output || !c.writer.Done() {
			return false
		}
	}
	return true
}
