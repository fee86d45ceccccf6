// Package model defines shared data structures.
package model

import "fmt"

// Config defines practice settings.
type Config struct {
	Dictionaries []string
	Mode         string
	Uniform      bool
	LogName      string
	PollMs       int
}

// StatsConfig defines filters for stats output.
type StatsConfig struct {
	Label   string
	Last    int
	LogName string
}

// ResultRecord summarizes one completed timing interval.
type ResultRecord struct {
	Label    string
	Interval int
	Hits     int
	Misses   int
}

// String renders the record the way it appears in the session log, without
// the trailing newline.
func (r ResultRecord) String() string {
	return fmt.Sprintf("\"%s\", %d, %d, %d", r.Label, r.Interval, r.Hits, r.Misses)
}

// Mode maps a user-facing timeout label to its duration in seconds.
// Zero seconds means endless practice with periodic checkpoints.
type Mode struct {
	Label   string
	Seconds int
}

// DefaultModeLabel is the mode selected when none is configured.
const DefaultModeLabel = "1 min"

// Modes is the selectable timeout vocabulary, in display order.
var Modes = []Mode{
	{Label: "1/2 min", Seconds: 30},
	{Label: "1 min", Seconds: 60},
	{Label: "2 min", Seconds: 120},
	{Label: "Endless", Seconds: 0},
}

// ModeByLabel looks up a mode by its exact label.
func ModeByLabel(label string) (Mode, bool) {
	for _, m := range Modes {
		if m.Label == label {
			return m, true
		}
	}
	return Mode{}, false
}

// ModeLabels returns the labels of all modes in display order.
func ModeLabels() []string {
	labels := make([]string, len(Modes))
	for i, m := range Modes {
		labels[i] = m.Label
	}
	return labels
}

// NextModeLabel returns the label following current, wrapping around.
// Unknown labels yield the first mode.
func NextModeLabel(current string) string {
	for i, m := range Modes {
		if m.Label == current {
			return Modes[(i+1)%len(Modes)].Label
		}
	}
	return Modes[0].Label
}
