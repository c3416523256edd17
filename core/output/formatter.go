// Package output provides report formatting.
// This package produces human and machine-readable deficit reports.
package output

import (
	"io"
	"sort"
	"strings"
	"sync"

	"gear-cost/core/deficit"
	"gear-cost/core/refdata"
	"gear-cost/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatTable is a human-readable CLI table
	FormatTable Format = "table"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatCSV is a comma separated table
	FormatCSV Format = "csv"

	// FormatMarkdown is a markdown table
	FormatMarkdown Format = "markdown"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *Result) error
}

// Result is a deficit report plus the context it was computed in
type Result struct {
	// Report is the engine output
	Report *deficit.Report `json:"report"`

	// Request is the input that produced the report
	Request *deficit.Request `json:"request,omitempty"`

	// Metadata contains execution context
	Metadata Metadata `json:"metadata"`
}

// Metadata contains execution context
type Metadata struct {
	// Timestamp is when the calculation was performed
	Timestamp string `json:"timestamp"`

	// Duration is how long the calculation took
	Duration string `json:"duration,omitempty"`

	// Version is the tool version
	Version string `json:"version"`

	// Source identifies the reference data used
	Source refdata.Source `json:"source"`

	// RequestID correlates API calls with logs
	RequestID string `json:"request_id,omitempty"`
}

// Registry manages formatter registration
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[Format]Formatter)}
}

// Register adds a formatter to the registry
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[f.Format()]; exists {
		return errors.Newf(errors.TypeInternal, "formatter %q already registered", f.Format())
	}
	r.formatters[f.Format()] = f
	return nil
}

// Get returns a formatter by name; "md" and "cli" are accepted aliases
func (r *Registry) Get(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "md":
		format = FormatMarkdown
	case "cli", "":
		format = FormatTable
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	if !ok {
		return nil, errors.NotSupported("output format " + name)
	}
	return f, nil
}

// Names returns the registered format names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formatters))
	for f := range r.formatters {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns a registry with every built-in formatter
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, f := range []Formatter{
			NewTableFormatter(false),
			JSONFormatter{},
			CSVFormatter{},
			MarkdownFormatter{},
		} {
			_ = defaultRegistry.Register(f)
		}
	})
	return defaultRegistry
}
