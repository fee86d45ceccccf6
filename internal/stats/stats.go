// Package stats summarizes the progress log.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/wordsprint/internal/model"
)

const sparkChars = " .:-=+*#%@"

// IntervalMetrics computes words per minute and accuracy for one record.
func IntervalMetrics(hits, misses, seconds int) (wpm, accuracy float64) {
	if seconds <= 0 {
		return 0, 0
	}
	wpm = float64(hits) / (float64(seconds) / 60.0)
	if total := hits + misses; total > 0 {
		accuracy = float64(hits) / float64(total)
	}
	return wpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints overall totals for the report.
func RenderSummary(w io.Writer, report Report) error {
	if len(report.Records) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	var hits, misses, seconds int
	bestWPM := 0.0
	for _, r := range report.Records {
		hits += r.Hits
		misses += r.Misses
		seconds += r.Interval
		wpm, _ := IntervalMetrics(r.Hits, r.Misses, r.Interval)
		bestWPM = math.Max(bestWPM, wpm)
	}
	avgWPM, acc := IntervalMetrics(hits, misses, seconds)
	lines := []string{
		"Summary",
		fmt.Sprintf("Intervals: %d", len(report.Records)),
		fmt.Sprintf("Practice time: %s", formatSeconds(seconds)),
		fmt.Sprintf("Avg WPM: %.2f", avgWPM),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Accuracy: %.2f%%", acc*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderDictionaryTable prints one row per dictionary label.
func RenderDictionaryTable(w io.Writer, summaries []LabelSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Dictionary"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Label,
			fmt.Sprintf("%d", s.Intervals),
			formatSeconds(s.Seconds),
			fmt.Sprintf("%d", s.Hits),
			fmt.Sprintf("%d", s.Misses),
			fmt.Sprintf("%.1f", s.AvgWPM),
			fmt.Sprintf("%.1f", s.BestWPM),
			fmt.Sprintf("%.2f%%", s.Accuracy*100),
		})
	}
	for _, line := range renderTable(dictionaryColumns, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTrends prints a WPM sparkline per dictionary, newest on the right,
// limited to width columns.
func RenderTrends(w io.Writer, report Report, window, width int) error {
	if len(report.ByLabel) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "WPM Trend"); err != nil {
		return err
	}
	labelWidth := 0
	for _, s := range report.ByLabel {
		labelWidth = max(labelWidth, displayWidth(s.Label))
	}
	room := width - labelWidth - 3
	for _, s := range report.ByLabel {
		values := wpmSeries(report.Records, s.Label)
		values = MovingAverage(values, window)
		if room > 0 && len(values) > room {
			values = values[len(values)-room:]
		}
		line := runewidth.FillRight(s.Label, labelWidth) + " | " + Sparkline(values)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func wpmSeries(records []model.ResultRecord, label string) []float64 {
	var out []float64
	for _, r := range records {
		if r.Label != label {
			continue
		}
		wpm, _ := IntervalMetrics(r.Hits, r.Misses, r.Interval)
		out = append(out, wpm)
	}
	return out
}

func formatSeconds(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm%02ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%dh%02dm", seconds/3600, (seconds%3600)/60)
}
