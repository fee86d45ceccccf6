package stats

import (
	"os"

	"golang.org/x/term"

	"github.com/verte-zerg/wordsprint/internal/model"
)

const terminalWidthBackup = 80

// LabelSummary aggregates the records of one dictionary.
type LabelSummary struct {
	Label     string
	Intervals int
	Seconds   int
	Hits      int
	Misses    int
	AvgWPM    float64
	BestWPM   float64
	Accuracy  float64
}

// Report contains filtered records and their per-dictionary aggregates.
type Report struct {
	Records []model.ResultRecord
	ByLabel []LabelSummary
}

// BuildReport filters records by label and keeps the last cfg.Last of them.
// Dictionaries appear in the order they were first seen. Every record is
// treated as an independent interval; endless checkpoints are logged that way.
func BuildReport(records []model.ResultRecord, cfg model.StatsConfig) Report {
	filtered := make([]model.ResultRecord, 0, len(records))
	for _, r := range records {
		if cfg.Label != "" && r.Label != cfg.Label {
			continue
		}
		filtered = append(filtered, r)
	}
	if cfg.Last > 0 && len(filtered) > cfg.Last {
		filtered = filtered[len(filtered)-cfg.Last:]
	}

	index := map[string]int{}
	var summaries []LabelSummary
	for _, r := range filtered {
		i, ok := index[r.Label]
		if !ok {
			i = len(summaries)
			index[r.Label] = i
			summaries = append(summaries, LabelSummary{Label: r.Label})
		}
		s := &summaries[i]
		s.Intervals++
		s.Seconds += r.Interval
		s.Hits += r.Hits
		s.Misses += r.Misses
		wpm, _ := IntervalMetrics(r.Hits, r.Misses, r.Interval)
		if wpm > s.BestWPM {
			s.BestWPM = wpm
		}
	}
	for i := range summaries {
		s := &summaries[i]
		s.AvgWPM, s.Accuracy = IntervalMetrics(s.Hits, s.Misses, s.Seconds)
	}
	return Report{Records: filtered, ByLabel: summaries}
}

// TerminalWidth returns the width of stdout, or a fallback when stdout is
// not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
