package command

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps normalized command names to descriptors. It is populated
// once at startup and read-only afterwards; Resolve never mutates it.
type Registry struct {
	items map[string]*Descriptor
}

func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*Descriptor)}
}

// Normalize is the lookup key form: surrounding whitespace trimmed,
// lower-cased.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds one descriptor keyed by its normalized name.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil {
		return ErrCommandNil
	}
	key := Normalize(d.Name)
	if key == "" {
		return fmt.Errorf("%w: empty name", ErrCommandNil)
	}
	if _, ok := r.items[key]; ok {
		return fmt.Errorf("%w: %s", ErrCommandExists, key)
	}
	r.items[key] = d
	return nil
}

// Resolve selects a descriptor from whitespace-split input tokens and
// returns it with the remaining argument tokens. Empty input resolves to
// ErrNoCommand, never ErrUnknownCommand.
func (r *Registry) Resolve(tokens []string) (*Descriptor, []string, error) {
	if len(tokens) == 0 {
		return nil, nil, ErrNoCommand
	}
	key := Normalize(tokens[0])
	if key == "" {
		return nil, nil, ErrNoCommand
	}
	d, ok := r.items[key]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownCommand, key)
	}
	return d, tokens[1:], nil
}

// List returns every descriptor ordered by name.
func (r *Registry) List() []*Descriptor {
	list := make([]*Descriptor, 0, len(r.items))
	for _, d := range r.items {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool {
		return Normalize(list[i].Name) < Normalize(list[j].Name)
	})
	return list
}
