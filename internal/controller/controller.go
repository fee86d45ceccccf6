// Package controller connects a front end to the practice session and the
// progress log.
package controller

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/verte-zerg/wordsprint/internal/dictionary"
	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/progresslog"
	"github.com/verte-zerg/wordsprint/internal/session"
)

var (
	// ErrUnknownDictionary is returned when selecting an id the registry lacks.
	ErrUnknownDictionary = errors.New("unknown dictionary")
	// ErrUnknownMode is returned for labels outside the mode vocabulary.
	ErrUnknownMode = errors.New("unknown timeout mode")
	// ErrNoDictionary is returned when a mode change has no dictionary to arm.
	ErrNoDictionary = errors.New("no dictionary selected")
)

// Options configures a Controller.
type Options struct {
	// Mode is the initial timeout label; empty means model.DefaultModeLabel.
	Mode   string
	Logger *slog.Logger
}

// Status is the snapshot returned to the front end after every call.
type Status struct {
	Outcome    session.Outcome
	Event      session.Event
	Record     *model.ResultRecord
	State      session.State
	Target     string
	Dictionary string
	Mode       string
	Hits       int
	Misses     int
	Remaining  time.Duration
	Pending    int
	Err        error
}

// Controller owns the practice session and the progress logger. All methods
// are serialized, so it may be driven from several goroutines.
type Controller struct {
	mu       sync.Mutex
	registry *dictionary.Registry
	progress *progresslog.Logger
	session  *session.Session
	log      *slog.Logger

	active string
	mode   model.Mode
}

// New wires a controller. The session starts idle until a dictionary is selected.
func New(reg *dictionary.Registry, progress *progresslog.Logger, sess *session.Session, opts Options) (*Controller, error) {
	label := opts.Mode
	if label == "" {
		label = model.DefaultModeLabel
	}
	mode, ok := model.ModeByLabel(label)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, label)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		registry: reg,
		progress: progress,
		session:  sess,
		log:      logger,
		mode:     mode,
	}, nil
}

// SelectDictionary arms a new session on the dictionary registered as id,
// abandoning any session in progress. It returns the first target word.
func (c *Controller) SelectDictionary(id string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.selectDictionary(id)
}

// NextDictionary selects the dictionary step positions away from the active
// one in registration order, wrapping around.
func (c *Controller) NextDictionary(step int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.registry.Next(c.active, step)
	if !ok {
		return "", ErrNoDictionary
	}
	return c.selectDictionary(id)
}

// Restart re-arms the active dictionary with the current mode.
func (c *Controller) Restart() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == "" {
		return "", ErrNoDictionary
	}
	return c.selectDictionary(c.active)
}

// Dictionaries returns the selectable dictionary ids.
func (c *Controller) Dictionaries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.IDs()
}

// ChangeTimeout switches the timeout mode and re-arms the active dictionary.
// The mode is left unchanged when nothing could be armed.
func (c *Controller) ChangeTimeout(label string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	mode, ok := model.ModeByLabel(label)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, label)
	}
	d, ok := c.registry.Get(c.active)
	if !ok {
		return "", ErrNoDictionary
	}
	return c.arm(c.active, d, mode)
}

// SubmitText forwards the current input text to the session.
func (c *Controller) SubmitText(text string) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	outcome, err := c.session.Submit(text)
	if err != nil {
		c.log.Error("submit failed", "run_id", c.session.RunID(), "dictionary", c.active, "error", err)
	}
	if outcome == session.Started {
		c.log.Info("session started", "run_id", c.session.RunID(), "dictionary", c.active, "mode", c.mode.Label)
	}
	st := c.status()
	st.Outcome = outcome
	st.Err = err
	return st
}

// Poll checks the session clock. Records produced by a timeout or an
// endless checkpoint are buffered in the progress logger.
func (c *Controller) Poll() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	event, record := c.session.Tick()
	if record != nil {
		c.progress.Record(*record)
		c.log.Info("interval recorded",
			"run_id", c.session.RunID(),
			"event", event.String(),
			"dictionary", record.Label,
			"interval", record.Interval,
			"hits", record.Hits,
			"misses", record.Misses,
		)
	}
	st := c.status()
	st.Event = event
	st.Record = record
	return st
}

// Status returns the current snapshot without changing anything.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status()
}

// Flush writes buffered records to the progress log.
func (c *Controller) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flush()
}

// Shutdown flushes the progress log. Call it before the process exits.
func (c *Controller) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.flush(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Active returns the id of the selected dictionary.
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Mode returns the selected timeout mode.
func (c *Controller) Mode() model.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) selectDictionary(id string) (string, error) {
	d, ok := c.registry.Get(id)
	if !ok {
		if loadErr := c.registry.Err(id); loadErr != nil {
			return "", fmt.Errorf("%w %q: %w", ErrUnknownDictionary, id, loadErr)
		}
		return "", fmt.Errorf("%w %q", ErrUnknownDictionary, id)
	}
	return c.arm(id, d, c.mode)
}

// arm makes id and mode current only once the session accepted them.
func (c *Controller) arm(id string, d *dictionary.Dictionary, mode model.Mode) (string, error) {
	target, err := c.session.Arm(d, mode.Seconds)
	if err != nil {
		c.log.Error("arm failed", "dictionary", id, "mode", mode.Label, "error", err)
		return "", err
	}
	c.active = id
	c.mode = mode
	c.log.Debug("session armed", "run_id", c.session.RunID(), "dictionary", id, "mode", mode.Label)
	return target, nil
}

func (c *Controller) flush() error {
	count := c.progress.Len()
	if err := c.progress.Flush(); err != nil {
		c.log.Error("flush failed", "path", c.progress.Path(), "pending", count, "error", err)
		return err
	}
	if count > 0 {
		c.log.Info("progress flushed", "path", c.progress.Path(), "records", count)
	}
	return nil
}

func (c *Controller) status() Status {
	target, _ := c.session.CurrentTarget()
	hits, misses := c.session.Score()
	return Status{
		State:      c.session.State(),
		Target:     target,
		Dictionary: c.active,
		Mode:       c.mode.Label,
		Hits:       hits,
		Misses:     misses,
		Remaining:  c.session.Remaining(),
		Pending:    c.progress.Len(),
	}
}
