// Package dictionary loads ranked word lists and draws practice words from them.
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// wordField is the index of the word token in a source record. The
// preceding fields (rank and frequency count) are not used.
const wordField = 2

// ErrEmptyDictionary is returned when drawing from a dictionary without words.
var ErrEmptyDictionary = errors.New("dictionary is empty")

// LoadError reports a word list that could not be loaded.
type LoadError struct {
	Source string
	Line   int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s: line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Dictionary is an immutable word list plus the label it was loaded from.
type Dictionary struct {
	label   string
	words   []string
	sampler *Sampler
}

// New builds a dictionary from words already in memory.
// A nil sampler is replaced with a time-seeded one.
func New(label string, words []string, sampler *Sampler) (*Dictionary, error) {
	if len(words) == 0 {
		return nil, &LoadError{Source: label, Err: ErrEmptyDictionary}
	}
	for i, w := range words {
		if w == "" || strings.ContainsFunc(w, unicode.IsSpace) {
			return nil, &LoadError{Source: label, Line: i + 1, Err: fmt.Errorf("invalid word %q", w)}
		}
	}
	if sampler == nil {
		sampler = NewTimeSampler()
	}
	return &Dictionary{
		label:   label,
		words:   append([]string(nil), words...),
		sampler: sampler,
	}, nil
}

// Load reads a word list file. The dictionary label is the file's base name.
func Load(path string, sampler *Sampler) (*Dictionary, error) {
	label := filepath.Base(path)
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: label, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return Parse(label, file, sampler)
}

// Parse reads whitespace-separated records and keeps the third field of each.
// Blank lines are skipped; any other line with fewer than three fields fails
// the whole source.
func Parse(label string, r io.Reader, sampler *Sampler) (*Dictionary, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) <= wordField {
			return nil, &LoadError{
				Source: label,
				Line:   lineNo,
				Err:    fmt.Errorf("expected at least %d fields, got %d", wordField+1, len(fields)),
			}
		}
		words = append(words, fields[wordField])
	}
	if err := scanner.Err(); err != nil {
		return nil, &LoadError{Source: label, Err: err}
	}
	return New(label, words, sampler)
}

// Label returns the source identifier used in result records.
func (d *Dictionary) Label() string {
	if d == nil {
		return ""
	}
	return d.label
}

// Len returns the number of words.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.words)
}

// Words returns a copy of the word list in source order.
func (d *Dictionary) Words() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.words...)
}

// Contains reports whether word is in the list.
func (d *Dictionary) Contains(word string) bool {
	if d == nil {
		return false
	}
	for _, w := range d.words {
		if w == word {
			return true
		}
	}
	return false
}

// Sample draws a word. Weighted draws favor entries near the front of the
// list; unweighted draws are uniform.
func (d *Dictionary) Sample(weighted bool) (string, error) {
	if d == nil || len(d.words) == 0 {
		return "", ErrEmptyDictionary
	}
	if d.sampler == nil {
		d.sampler = NewTimeSampler()
	}
	return d.words[d.sampler.Index(len(d.words), weighted)], nil
}
