package dictionary

import (
	"errors"
	"path/filepath"
	"strings"
)

// Registry holds the dictionaries available to the process, in
// registration order.
type Registry struct {
	order []string
	dicts map[string]*Dictionary
	errs  map[string]error
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		dicts: map[string]*Dictionary{},
		errs:  map[string]error{},
	}
}

// IDFromPath derives a dictionary id from a file path: the base name
// without its extension.
func IDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Register adds or replaces a dictionary under id.
func (r *Registry) Register(id string, d *Dictionary) {
	if _, ok := r.dicts[id]; !ok {
		r.order = append(r.order, id)
	}
	r.dicts[id] = d
	delete(r.errs, id)
}

// LoadFiles loads every path. Dictionaries that load are registered; the
// failures are remembered per id and returned joined.
func (r *Registry) LoadFiles(paths []string, sampler *Sampler) error {
	var errs []error
	for _, path := range paths {
		id := IDFromPath(path)
		d, err := Load(path, sampler)
		if err != nil {
			r.errs[id] = err
			errs = append(errs, err)
			continue
		}
		r.Register(id, d)
	}
	return errors.Join(errs...)
}

// Get returns the dictionary registered under id.
func (r *Registry) Get(id string) (*Dictionary, bool) {
	d, ok := r.dicts[id]
	return d, ok
}

// Err returns the load error recorded for id, if any.
func (r *Registry) Err(id string) error {
	return r.errs[id]
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of usable dictionaries.
func (r *Registry) Len() int {
	return len(r.order)
}

// Next returns the id after current, wrapping around. step may be negative.
func (r *Registry) Next(current string, step int) (string, bool) {
	if len(r.order) == 0 {
		return "", false
	}
	idx := -1
	for i, id := range r.order {
		if id == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return r.order[0], true
	}
	n := len(r.order)
	return r.order[((idx+step)%n+n)%n], true
}
