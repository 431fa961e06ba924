package typing

import (
	"strings"
	"testing"
	"time"
)

func TestTypewriterRevealsWhoamiInSixSteps(t *testing.T) {
	t.Parallel()

	w := New("whoami", 150*time.Millisecond)
	w.Start()
	if !w.Typing() {
		t.Fatal("typing flag should be set on start")
	}
	for step := 1; step <= 6; step++ {
		w.Step()
		got := w.Current()
		if step < 6 {
			if got == "whoami" || !strings.HasPrefix("whoami", got) || len(got) != step {
				t.Fatalf("after %d steps got %q, want strict prefix of length %d", step, got, step)
			}
			if !w.Typing() {
				t.Fatalf("typing cleared early at step %d", step)
			}
		}
	}
	if w.Current() != "whoami" {
		t.Fatalf("current = %q, want whoami", w.Current())
	}
	if w.Typing() || !w.Done() {
		t.Fatal("typing should be finished after the final character")
	}
	if w.Step() {
		t.Fatal("step after completion should be a no-op")
	}
	if w.Current() != "whoami" {
		t.Fatal("step after completion changed the text")
	}
}

func TestTypewriterEmptySourceCompletesImmediately(t *testing.T) {
	t.Parallel()

	w := New("", time.Second)
	w.Start()
	if w.Typing() || !w.Done() || w.Current() != "" {
		t.Fatalf("empty source: typing=%v done=%v current=%q", w.Typing(), w.Done(), w.Current())
	}
}

func TestTypewriterRestartResetsBuffer(t *testing.T) {
	t.Parallel()

	w := New("cat bio.txt", 0)
	w.Start()
	w.Step()
	w.Step()
	w.Start()
	if w.Current() != "" {
		t.Fatalf("restart kept %q", w.Current())
	}
}

func TestTypewriterTickFollowsDelay(t *testing.T) {
	t.Parallel()

	w := New("whoami", 100*time.Millisecond)
	w.Start()
	w.Tick(0)
	if w.Current() != "w" {
		t.Fatalf("first character should appear immediately, got %q", w.Current())
	}
	w.Tick(250 * time.Millisecond)
	if w.Current() != "who" {
		t.Fatalf("after 250ms got %q, want who", w.Current())
	}
	w.Tick(time.Second)
	if !w.Done() {
		t.Fatalf("not done after a second, got %q", w.Current())
	}
}

func TestScriptTimeline(t *testing.T) {
	t.Parallel()

	s := NewScript(DefaultIntro, 1)
	s.Advance(900 * time.Millisecond)
	if lines := s.Lines(); lines[0].Started {
		t.Fatal("whoami started before one second")
	}

	s.Advance(100 * time.Millisecond)
	lines := s.Lines()
	if !lines[0].Started || lines[0].Typed != "w" {
		t.Fatalf("at 1s got %+v, want first character typed", lines[0])
	}

	for i := 0; i < 10; i++ {
		s.Advance(150 * time.Millisecond)
	}
	lines = s.Lines()
	if lines[0].Typed != "whoami" || lines[0].Typing {
		t.Fatalf("whoami not finished: %+v", lines[0])
	}
	if lines[0].OutputVisible {
		t.Fatal("whoami output shown before two seconds elapsed since typing began")
	}

	s.Advance(500 * time.Millisecond) // 3.0s
	if !s.Lines()[0].OutputVisible {
		t.Fatal("whoami output should be visible at 3s")
	}
	if s.Lines()[1].Started {
		t.Fatal("cat bio.txt started before 4s")
	}

	s.Advance(3 * time.Second)
	if !s.Finished() {
		t.Fatalf("script not finished at 6s: %+v", s.Lines())
	}
}

func TestScriptSkipAndScale(t *testing.T) {
	t.Parallel()

	s := NewScript(DefaultIntro, 0.5)
	s.Advance(500 * time.Millisecond)
	if !s.Lines()[0].Started {
		t.Fatal("scaled script should start whoami at 500ms")
	}

	other := NewScript(DefaultIntro, 1)
	other.Skip()
	if !other.Finished() {
		t.Fatal("skip should finish the script")
	}
	for _, line := range other.Lines() {
		if line.Typed != line.Command {
			t.Fatalf("skip left %q partially typed", line.Command)
		}
	}
}
