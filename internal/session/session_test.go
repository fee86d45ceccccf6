package session

import (
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/wordsprint/internal/dictionary"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// cycleSource returns its words in order, wrapping around.
type cycleSource struct {
	label string
	words []string
	next  int
}

func (c *cycleSource) Sample(bool) (string, error) {
	if len(c.words) == 0 {
		return "", dictionary.ErrEmptyDictionary
	}
	w := c.words[c.next%len(c.words)]
	c.next++
	return w, nil
}

func (c *cycleSource) Label() string {
	return c.label
}

func newTestSession(t *testing.T, timeout int) (*Session, *fakeClock, *cycleSource) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	src := &cycleSource{label: "test.num", words: []string{"the", "quick", "brown"}}
	s := NewWithClock(true, clock.now)
	target, err := s.Arm(src, timeout)
	if err != nil {
		t.Fatalf("arm: %v", err)
	}
	if target != "the" {
		t.Fatalf("expected first target the, got %q", target)
	}
	return s, clock, src
}

func TestNewSessionIsIdle(t *testing.T) {
	s := New(false)
	if s.State() != Idle {
		t.Fatalf("expected idle, got %v", s.State())
	}
	if out, err := s.Submit("! "); err != nil || out != NoOp {
		t.Fatalf("expected no-op on idle session, got %v %v", out, err)
	}
	if ev, rec := s.Tick(); ev != NoEvent || rec != nil {
		t.Fatalf("expected no event on idle session")
	}
	if _, err := s.CurrentTarget(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestArmResetsCounters(t *testing.T) {
	s, _, src := newTestSession(t, 60)
	if _, err := s.Submit("! "); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := s.Submit("the "); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := s.Submit("nope "); err != nil {
		t.Fatalf("submit: %v", err)
	}
	firstRun := s.RunID()

	target, err := s.Arm(src, 30)
	if err != nil {
		t.Fatalf("re-arm: %v", err)
	}
	hits, misses := s.Score()
	if hits != 0 || misses != 0 {
		t.Fatalf("expected counters reset, got %d/%d", hits, misses)
	}
	if s.State() != Armed {
		t.Fatalf("expected armed, got %v", s.State())
	}
	if current, _ := s.CurrentTarget(); current != target {
		t.Fatalf("expected current target %q, got %q", target, current)
	}
	if s.Timeout() != 30 {
		t.Fatalf("expected timeout 30, got %d", s.Timeout())
	}
	if s.RunID() == firstRun {
		t.Fatalf("expected a new run id after re-arming")
	}
}

func TestArmTargetIsDictionaryMember(t *testing.T) {
	d, err := dictionary.New("mem.num", []string{"alpha", "beta", "gamma"}, dictionary.NewSampler(5))
	if err != nil {
		t.Fatalf("new dictionary: %v", err)
	}
	s := New(true)
	for i := 0; i < 50; i++ {
		target, err := s.Arm(d, 60)
		if err != nil {
			t.Fatalf("arm: %v", err)
		}
		if !d.Contains(target) {
			t.Fatalf("target %q not in dictionary", target)
		}
	}
}

func TestArmFailures(t *testing.T) {
	s := New(false)
	if _, err := s.Arm(&cycleSource{label: "empty"}, 60); !errors.Is(err, dictionary.ErrEmptyDictionary) {
		t.Fatalf("expected ErrEmptyDictionary, got %v", err)
	}
	if s.State() != Idle {
		t.Fatalf("expected idle after failed arm, got %v", s.State())
	}
	if _, err := s.Arm(&cycleSource{words: []string{"a"}}, -1); !errors.Is(err, ErrInvalidTimeout) {
		t.Fatalf("expected ErrInvalidTimeout, got %v", err)
	}
}

func TestArmedIgnoresAnythingButStartSignal(t *testing.T) {
	s, _, _ := newTestSession(t, 60)
	for _, text := range []string{"hello ", "!", "!  ", "the ", ""} {
		out, err := s.Submit(text)
		if err != nil {
			t.Fatalf("submit %q: %v", text, err)
		}
		if out != NoOp {
			t.Fatalf("expected no-op for %q, got %v", text, out)
		}
		if s.State() != Armed {
			t.Fatalf("expected to stay armed after %q", text)
		}
	}
	out, err := s.Submit("! ")
	if err != nil || out != Started {
		t.Fatalf("expected started, got %v %v", out, err)
	}
	if s.State() != Running {
		t.Fatalf("expected running, got %v", s.State())
	}
	if current, _ := s.CurrentTarget(); current != "the" {
		t.Fatalf("start signal must not consume the target, got %q", current)
	}
}

func TestRunningScoresWords(t *testing.T) {
	s, _, _ := newTestSession(t, 60)
	if _, err := s.Submit("! "); err != nil {
		t.Fatalf("start: %v", err)
	}

	out, err := s.Submit("the")
	if err != nil || out != NoOp {
		t.Fatalf("expected no-op for partial word, got %v %v", out, err)
	}
	if hits, misses := s.Score(); hits != 0 || misses != 0 {
		t.Fatalf("partial word changed counters: %d/%d", hits, misses)
	}
	if current, _ := s.CurrentTarget(); current != "the" {
		t.Fatalf("partial word changed target to %q", current)
	}

	out, err = s.Submit("the ")
	if err != nil || out != Advanced {
		t.Fatalf("expected advanced, got %v %v", out, err)
	}
	if hits, misses := s.Score(); hits != 1 || misses != 0 {
		t.Fatalf("expected 1 hit, got %d/%d", hits, misses)
	}
	if current, _ := s.CurrentTarget(); current != "quick" {
		t.Fatalf("expected next target quick, got %q", current)
	}

	if _, err := s.Submit("Quick "); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if hits, misses := s.Score(); hits != 1 || misses != 1 {
		t.Fatalf("expected case-sensitive miss, got %d/%d", hits, misses)
	}
}

func TestStartSignalWhileRunningIsAWord(t *testing.T) {
	s, _, _ := newTestSession(t, 60)
	if _, err := s.Submit("! "); err != nil {
		t.Fatalf("start: %v", err)
	}
	out, err := s.Submit("! ")
	if err != nil || out != Advanced {
		t.Fatalf("expected advanced, got %v %v", out, err)
	}
	if hits, misses := s.Score(); hits != 0 || misses != 1 {
		t.Fatalf("expected a miss, got %d/%d", hits, misses)
	}
}

func TestOnlyOneTrailingSpaceIsStripped(t *testing.T) {
	s, _, _ := newTestSession(t, 60)
	if _, err := s.Submit("! "); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.Submit("the  "); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if hits, misses := s.Score(); hits != 0 || misses != 1 {
		t.Fatalf("expected a miss for double space, got %d/%d", hits, misses)
	}
}

func TestFixedTimeout(t *testing.T) {
	s, clock, _ := newTestSession(t, 60)
	if _, err := s.Submit("! "); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.Submit("the "); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := s.Submit("dog "); err != nil {
		t.Fatalf("submit: %v", err)
	}

	clock.advance(59 * time.Second)
	if ev, rec := s.Tick(); ev != NoEvent || rec != nil {
		t.Fatalf("expected no event before timeout, got %v", ev)
	}
	if s.State() != Running {
		t.Fatalf("expected running, got %v", s.State())
	}
	if left := s.Remaining(); left != time.Second {
		t.Fatalf("expected 1s remaining, got %v", left)
	}

	clock.advance(2 * time.Second)
	ev, rec := s.Tick()
	if ev != Timeout {
		t.Fatalf("expected timeout, got %v", ev)
	}
	if rec == nil {
		t.Fatalf("expected a record")
	}
	if rec.Label != "test.num" || rec.Interval != 60 || rec.Hits != 1 || rec.Misses != 1 {
		t.Fatalf("unexpected record %+v", *rec)
	}
	if s.State() != TimedOut {
		t.Fatalf("expected timed out, got %v", s.State())
	}

	if out, _ := s.Submit("quick "); out != NoOp {
		t.Fatalf("expected no-op after timeout, got %v", out)
	}
	if hits, misses := s.Score(); hits != 1 || misses != 1 {
		t.Fatalf("counters changed after timeout: %d/%d", hits, misses)
	}
	clock.advance(time.Hour)
	if ev, _ := s.Tick(); ev != NoEvent {
		t.Fatalf("expected a single timeout event, got %v", ev)
	}
}

func TestTimeoutAtExactBoundary(t *testing.T) {
	s, clock, _ := newTestSession(t, 30)
	if _, err := s.Submit("! "); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.advance(30 * time.Second)
	if ev, rec := s.Tick(); ev != Timeout || rec.Interval != 30 {
		t.Fatalf("expected timeout at the boundary, got %v", ev)
	}
}

func TestArmedDoesNotTimeOut(t *testing.T) {
	s, clock, _ := newTestSession(t, 30)
	clock.advance(time.Hour)
	if ev, _ := s.Tick(); ev != NoEvent {
		t.Fatalf("expected the clock to wait for the start signal, got %v", ev)
	}
	if s.Remaining() != 30*time.Second {
		t.Fatalf("expected full interval remaining, got %v", s.Remaining())
	}
}

func TestEndlessCheckpoints(t *testing.T) {
	s, clock, _ := newTestSession(t, 0)
	if _, err := s.Submit("! "); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.Submit("the "); err != nil {
		t.Fatalf("submit: %v", err)
	}

	records := 0
	for boundary := 1; boundary <= 3; boundary++ {
		clock.advance(29 * time.Second)
		if ev, _ := s.Tick(); ev != NoEvent {
			t.Fatalf("boundary %d: expected no event before checkpoint, got %v", boundary, ev)
		}
		clock.advance(time.Second)
		ev, rec := s.Tick()
		if ev != Checkpoint {
			t.Fatalf("boundary %d: expected checkpoint, got %v", boundary, ev)
		}
		wantHits := 0
		if boundary == 1 {
			wantHits = 1
		}
		if rec.Interval != 30 || rec.Hits != wantHits || rec.Label != "test.num" {
			t.Fatalf("boundary %d: unexpected record %+v", boundary, *rec)
		}
		if s.State() != Running {
			t.Fatalf("boundary %d: expected to keep running, got %v", boundary, s.State())
		}
		if ev, _ := s.Tick(); ev != NoEvent {
			t.Fatalf("boundary %d: expected one record per boundary", boundary)
		}
		records++
	}
	if records != 3 {
		t.Fatalf("expected 3 checkpoints, got %d", records)
	}
	if _, err := s.Submit("quick "); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if hits, _ := s.Score(); hits != 2 {
		t.Fatalf("expected counters to carry across checkpoints, got %d hits", hits)
	}
}

func TestStringers(t *testing.T) {
	if Running.String() != "running" || TimedOut.String() != "timed out" {
		t.Fatalf("unexpected state names")
	}
	if Started.String() != "started" || Advanced.String() != "advanced" || NoOp.String() != "no-op" {
		t.Fatalf("unexpected outcome names")
	}
	if Checkpoint.String() != "checkpoint" || NoEvent.String() != "no-event" {
		t.Fatalf("unexpected event names")
	}
}
