package progresslog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/verte-zerg/wordsprint/internal/model"
)

// FormatRecord renders one log line, including the trailing newline.
func FormatRecord(r model.ResultRecord) string {
	return r.String() + "\n"
}

// ParseRecord reads a line written by FormatRecord. The label may contain
// commas; it runs from the first to the last double quote.
func ParseRecord(line string) (model.ResultRecord, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, `"`) {
		return model.ResultRecord{}, fmt.Errorf("missing opening quote")
	}
	end := strings.LastIndex(line, `"`)
	if end == 0 {
		return model.ResultRecord{}, fmt.Errorf("missing closing quote")
	}
	label := line[1:end]
	rest := strings.TrimPrefix(strings.TrimSpace(line[end+1:]), ",")
	fields := strings.Split(rest, ",")
	if len(fields) != 3 {
		return model.ResultRecord{}, fmt.Errorf("expected 3 numeric fields, got %d", len(fields))
	}
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return model.ResultRecord{}, fmt.Errorf("field %d: %w", i+2, err)
		}
		if n < 0 {
			return model.ResultRecord{}, fmt.Errorf("field %d: negative value %d", i+2, n)
		}
		nums[i] = n
	}
	return model.ResultRecord{Label: label, Interval: nums[0], Hits: nums[1], Misses: nums[2]}, nil
}

// ReadRecords parses a whole log. Blank lines are skipped; a malformed line
// stops reading with an error naming its line number.
func ReadRecords(r io.Reader) ([]model.ResultRecord, error) {
	var records []model.ResultRecord
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadFile parses the log at path.
func ReadFile(path string) ([]model.ResultRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	return ReadRecords(file)
}
