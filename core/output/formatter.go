// Package output renders proposals for humans and machines.
// This is the only place values are rounded.
package output

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"solar-proposal/core/types"
	apperrors "solar-proposal/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatText is a human-readable terminal report
	FormatText Format = "text"

	// FormatJSON is the machine-readable rounded view
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given proposal
	Render(w io.Writer, proposal *types.Proposal) error
}

// Options controls optional report sections
type Options struct {
	// ShowMonthly prints the monthly production table
	ShowMonthly bool

	// ShowProjection prints the yearly projection table
	ShowProjection bool
}

// Registry manages formatter registration
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates a registry holding the built-in formatters
func NewRegistry(opts Options) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	_ = r.Register(NewTextFormatter(opts))
	_ = r.Register(NewJSONFormatter())
	_ = r.Register(NewMarkdownFormatter(opts))
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[f.Format()]; exists {
		return fmt.Errorf("formatter already registered: %s", f.Format())
	}
	r.formatters[f.Format()] = f
	return nil
}

// Get returns a formatter for a format name
func (r *Registry) Get(format string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[Format(format)]
	if !ok {
		return nil, apperrors.InvalidInput("unknown output format %q (available: %v)", format, r.formatsLocked())
	}
	return f, nil
}

// Formats returns the registered format names, sorted
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.formatsLocked()
}

func (r *Registry) formatsLocked() []Format {
	out := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
