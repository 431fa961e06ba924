// Package tuitest drives a built termfolio binary inside a pseudo terminal
// and records what it draws, for end-to-end tests of the full-screen UI.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 100
	defaultHeight  = 32
	defaultTimeout = 10 * time.Second
)

// Step is one scripted interaction. The harness waits Delay, then writes
// Input to the terminal.
type Step struct {
	Delay time.Duration
	Input []byte
}

// Type returns a step that writes s at once. The UI sees a multi-rune
// write as a single key event, so send separate steps for separate keys.
func Type(s string) Step {
	return Step{Input: []byte(s)}
}

// Wait returns a step that only pauses.
func Wait(d time.Duration) Step {
	return Step{Delay: d}
}

// Config describes the program under test.
type Config struct {
	Command []string
	Dir     string
	// Env is appended to the current environment.
	Env     []string
	Width   int
	Height  int
	Steps   []Step
	Timeout time.Duration
	// AllowedExitCodes lists non-zero exit codes that still count as success.
	AllowedExitCodes []int
}

// Recording is everything the program wrote to the terminal.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// Contains reports whether any frame shows text.
func (r *Recording) Contains(text string) bool {
	_, ok := r.FrameContaining(text)
	return ok
}

// FrameContaining returns the first frame that shows text.
func (r *Recording) FrameContaining(text string) (Frame, bool) {
	if r == nil {
		return Frame{}, false
	}
	for _, f := range r.Frames {
		if strings.Contains(f.Plain, text) {
			return f, true
		}
	}
	return Frame{}, false
}

// syncBuffer is written by the PTY reader while the script runs.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

// Run starts cfg.Command in a PTY, replays cfg.Steps and waits for the
// program to exit.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	cfg = withDefaults(cfg)
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(cfg.Height), Cols: uint16(cfg.Width)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	var output syncBuffer
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		responder := newTerminalResponder(ptmx)
		chunk := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(chunk)
			if n > 0 {
				responder.Process(chunk[:n])
				_, _ = output.Write(chunk[:n])
			}
			if readErr != nil {
				return
			}
		}
	}()

	start := time.Now()
	if err := replay(ctx, ptmx, cfg.Steps); err != nil {
		return nil, err
	}

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	select {
	case err := <-exited:
		if err := checkExit(err, cfg.AllowedExitCodes); err != nil {
			return nil, err
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}

	_ = ptmx.Close()
	<-drained

	raw := output.Bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(start)}, nil
}

func withDefaults(cfg Config) Config {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg
}

func replay(ctx context.Context, ptmx *os.File, steps []Step) error {
	for i, step := range steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("tuitest: cancelled before step %d: %w", i, ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if len(step.Input) == 0 {
			continue
		}
		if _, err := ptmx.Write(step.Input); err != nil {
			return fmt.Errorf("tuitest: write step %d: %w", i, err)
		}
	}
	return nil
}

func checkExit(err error, allowed []int) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		for _, code := range allowed {
			if exitErr.ExitCode() == code {
				return nil
			}
		}
	}
	return fmt.Errorf("tuitest: program exited with error: %w", err)
}

func buildEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

// Key sequences understood by the UI.
var (
	KeyEnter = []byte{'\r'}
	KeyEsc   = []byte{27}
	KeyTab   = []byte{'\t'}
	KeyCtrlC = []byte{3}
	KeyUp    = []byte("\x1b[A")
	KeyDown  = []byte("\x1b[B")
	KeyRight = []byte("\x1b[C")
	KeyLeft  = []byte("\x1b[D")
)

// Konami returns the ten key presses of the konami sequence, spaced by gap
// so each arrives as its own key event.
func Konami(gap time.Duration) []Step {
	keys := [][]byte{KeyUp, KeyUp, KeyDown, KeyDown, KeyLeft, KeyRight, KeyLeft, KeyRight, []byte("b"), []byte("a")}
	steps := make([]Step, 0, len(keys))
	for _, k := range keys {
		steps = append(steps, Step{Delay: gap, Input: k})
	}
	return steps
}
