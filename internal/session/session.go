// Package session implements the timed typing test state machine.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/verte-zerg/wordsprint/internal/model"
)

// StartSignal is the only input that starts an armed session.
const StartSignal = "! "

// CheckpointInterval is the reporting period of endless sessions.
const CheckpointInterval = 30 * time.Second

var (
	// ErrInvalidState is returned by operations that need an armed or running session.
	ErrInvalidState = errors.New("session is not armed")
	// ErrInvalidTimeout is returned when arming with a negative timeout.
	ErrInvalidTimeout = errors.New("timeout must be >= 0")
)

// WordSource supplies target words and the label stored in result records.
type WordSource interface {
	Sample(weighted bool) (string, error)
	Label() string
}

// State is a session lifecycle state.
type State int

// Session states.
const (
	Idle State = iota
	Armed
	Running
	TimedOut
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Running:
		return "running"
	case TimedOut:
		return "timed out"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome describes what a submission did.
type Outcome int

// Submission outcomes.
const (
	NoOp Outcome = iota
	Started
	Advanced
)

func (o Outcome) String() string {
	switch o {
	case NoOp:
		return "no-op"
	case Started:
		return "started"
	case Advanced:
		return "advanced"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Event describes what a tick observed.
type Event int

// Tick events.
const (
	NoEvent Event = iota
	Timeout
	Checkpoint
)

func (e Event) String() string {
	switch e {
	case NoEvent:
		return "no-event"
	case Timeout:
		return "timeout"
	case Checkpoint:
		return "checkpoint"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Session tracks one practice run. It is not safe for concurrent use.
type Session struct {
	now      func() time.Time
	fold     cases.Caser
	weighted bool

	source    WordSource
	state     State
	target    string
	startedAt time.Time
	timeout   int
	hits      int
	misses    int
	runID     string

	// counters at the last checkpoint; records carry the difference
	markHits   int
	markMisses int
}

// New returns an idle session using the wall clock. Weighted sessions draw
// common words more often.
func New(weighted bool) *Session {
	return NewWithClock(weighted, time.Now)
}

// NewWithClock returns an idle session that reads time from now.
func NewWithClock(weighted bool, now func() time.Time) *Session {
	return &Session{
		now:      now,
		fold:     cases.Fold(),
		weighted: weighted,
	}
}

// Arm selects a word source and timeout, draws the first target and waits
// for the start signal. Any run in progress is abandoned without a record.
func (s *Session) Arm(src WordSource, timeoutSeconds int) (string, error) {
	if timeoutSeconds < 0 {
		return "", ErrInvalidTimeout
	}
	if src == nil {
		return "", fmt.Errorf("arm: word source is nil")
	}
	s.resetCounters()
	s.startedAt = time.Time{}
	s.timeout = timeoutSeconds
	s.source = src
	s.runID = uuid.NewString()

	target, err := src.Sample(s.weighted)
	if err != nil {
		s.state = Idle
		s.target = ""
		return "", fmt.Errorf("failed to draw target word: %w", err)
	}
	s.target = target
	s.state = Armed
	return target, nil
}

// Submit evaluates the current contents of the input field.
func (s *Session) Submit(text string) (Outcome, error) {
	switch s.state {
	case Armed:
		if s.fold.String(text) != StartSignal {
			return NoOp, nil
		}
		s.resetCounters()
		s.startedAt = s.now()
		s.state = Running
		return Started, nil
	case Running:
		word, complete := strings.CutSuffix(text, " ")
		if !complete {
			return NoOp, nil
		}
		if word == s.target {
			s.hits++
		} else {
			s.misses++
		}
		target, err := s.source.Sample(s.weighted)
		if err != nil {
			return Advanced, fmt.Errorf("failed to draw target word: %w", err)
		}
		s.target = target
		return Advanced, nil
	default:
		return NoOp, nil
	}
}

// Tick checks the clock. A fixed-timeout session that has run out moves to
// TimedOut and yields its record; an endless session yields a checkpoint
// record every CheckpointInterval and keeps running. Checkpoint records
// count only the words submitted during their own interval, while Score
// keeps counting from the start signal.
func (s *Session) Tick() (Event, *model.ResultRecord) {
	if s.state != Running {
		return NoEvent, nil
	}
	period := s.period()
	if s.now().Sub(s.startedAt) < period {
		return NoEvent, nil
	}
	record := s.record(period)
	if s.timeout != 0 {
		s.state = TimedOut
		return Timeout, record
	}
	s.startedAt = s.now()
	s.markHits = s.hits
	s.markMisses = s.misses
	return Checkpoint, record
}

// CurrentTarget returns the word the user should type next.
func (s *Session) CurrentTarget() (string, error) {
	if s.state != Armed && s.state != Running {
		return "", ErrInvalidState
	}
	return s.target, nil
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Score returns the hit and miss counters.
func (s *Session) Score() (hits, misses int) {
	return s.hits, s.misses
}

// Timeout returns the configured timeout in seconds.
func (s *Session) Timeout() int {
	return s.timeout
}

// Weighted reports whether targets are drawn with frequency weighting.
func (s *Session) Weighted() bool {
	return s.weighted
}

// RunID identifies the current armed run.
func (s *Session) RunID() string {
	return s.runID
}

// Label returns the label of the armed word source.
func (s *Session) Label() string {
	if s.source == nil {
		return ""
	}
	return s.source.Label()
}

// Elapsed returns the time since the clock started, or since the last
// checkpoint for endless sessions. It is zero unless running.
func (s *Session) Elapsed() time.Duration {
	if s.state != Running {
		return 0
	}
	return s.now().Sub(s.startedAt)
}

// Remaining returns the time left in the current interval.
func (s *Session) Remaining() time.Duration {
	switch s.state {
	case Armed:
		return s.period()
	case Running:
		left := s.period() - s.now().Sub(s.startedAt)
		if left < 0 {
			return 0
		}
		return left
	default:
		return 0
	}
}

func (s *Session) period() time.Duration {
	if s.timeout == 0 {
		return CheckpointInterval
	}
	return time.Duration(s.timeout) * time.Second
}

func (s *Session) record(period time.Duration) *model.ResultRecord {
	return &model.ResultRecord{
		Label:    s.Label(),
		Interval: int(period / time.Second),
		Hits:     s.hits - s.markHits,
		Misses:   s.misses - s.markMisses,
	}
}

func (s *Session) resetCounters() {
	s.hits = 0
	s.misses = 0
	s.markHits = 0
	s.markMisses = 0
}
