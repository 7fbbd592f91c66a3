// Package diag holds the outcome and error types shared by the report extractors.
package diag

import (
	"fmt"
	"sort"
	"strings"
)

// Kind represents the category of a parse outcome
type Kind int

const (
	KindUnknown Kind = iota
	KindShapeViolation
	KindDrift
	KindDuplicateSegment
	KindTrailingRecord
	KindConversion
)

// Severity indicates whether processing of the current document may continue
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityFatal
)

// String returns a string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindShapeViolation:
		return "SHAPE_VIOLATION"
	case KindDrift:
		return "DRIFT"
	case KindDuplicateSegment:
		return "DUPLICATE_SEGMENT"
	case KindTrailingRecord:
		return "TRAILING_RECORD"
	case KindConversion:
		return "CONVERSION"
	default:
		return "UNKNOWN"
	}
}

// String returns a string representation of the Severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error describes one warning or fatal condition met while parsing a document.
type Error struct {
	Kind     Kind           `json:"kind"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	HuntCode string         `json:"hunt_code,omitempty"`
	Segment  string         `json:"segment,omitempty"`
	Page     int            `json:"page"`
	Lengths  map[string]int `json:"lengths,omitempty"`
	Source   string         `json:"source,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Kind, e.Message)
	if e.Source != "" {
		fmt.Fprintf(&b, " (source %s)", e.Source)
	}
	fmt.Fprintf(&b, " page=%d", e.Page)
	if e.HuntCode != "" {
		fmt.Fprintf(&b, " hunt_code=%s", e.HuntCode)
	}
	if e.Segment != "" {
		fmt.Fprintf(&b, " segment=%q", e.Segment)
	}
	if len(e.Lengths) > 0 {
		fmt.Fprintf(&b, " lengths=%s", FormatLengths(e.Lengths))
	}
	return b.String()
}

// IsFatal reports whether the error aborts the current document
func (e *Error) IsFatal() bool {
	return e.Severity == SeverityFatal
}

// Fatal creates an error that aborts the current document
func Fatal(kind Kind, message string) *Error {
	return &Error{Kind: kind, Severity: SeverityFatal, Message: message}
}

// Warning creates an error that is reported but lets processing continue
func Warning(kind Kind, message string) *Error {
	return &Error{Kind: kind, Severity: SeverityWarning, Message: message}
}

// WithPage adds page number information
func (e *Error) WithPage(page int) *Error {
	e.Page = page
	return e
}

// WithHuntCode adds the most recent hunt code
func (e *Error) WithHuntCode(code string) *Error {
	e.HuntCode = code
	return e
}

// WithSegment adds the offending segment text
func (e *Error) WithSegment(segment string) *Error {
	e.Segment = segment
	return e
}

// WithLengths attaches a copy of the per-column length map
func (e *Error) WithLengths(lengths map[string]int) *Error {
	e.Lengths = make(map[string]int, len(lengths))
	for k, v := range lengths {
		e.Lengths[k] = v
	}
	return e
}

// WithSource adds the source document name
func (e *Error) WithSource(source string) *Error {
	e.Source = source
	return e
}

// FormatLengths renders a length map in stable key order
func FormatLengths(lengths map[string]int) string {
	keys := make([]string, 0, len(lengths))
	for k := range lengths {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%d", k, lengths[k]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Outcome is the explicit result of processing one page or segment. A nil Fatal
// means the caller may continue with the next unit.
type Outcome struct {
	Warnings []*Error
	Fatal    *Error
}

// Warn records a warning on the outcome
func (o *Outcome) Warn(err *Error) {
	o.Warnings = append(o.Warnings, err)
}

// Abort records the fatal error that stops the document
func (o *Outcome) Abort(err *Error) {
	o.Fatal = err
}

// Merge folds another outcome into this one. The first fatal error wins.
func (o *Outcome) Merge(other Outcome) {
	o.Warnings = append(o.Warnings, other.Warnings...)
	if o.Fatal == nil && other.Fatal != nil {
		o.Fatal = other.Fatal
	}
}

// Err returns the fatal error or nil
func (o Outcome) Err() error {
	if o.Fatal == nil {
		return nil
	}
	return o.Fatal
}

// Collection gathers the warnings raised for a single document
type Collection struct {
	Source   string   `json:"source,omitempty"`
	Warnings []*Error `json:"warnings"`
}

// NewCollection creates a new collection for the named source
func NewCollection(source string) *Collection {
	return &Collection{
		Source:   source,
		Warnings: make([]*Error, 0),
	}
}

// Add appends warnings, stamping the collection's source on them
func (c *Collection) Add(warnings ...*Error) {
	for _, w := range warnings {
		if w.Source == "" && c.Source != "" {
			w.Source = c.Source
		}
		c.Warnings = append(c.Warnings, w)
	}
}

// Count returns the number of warnings of the given kind
func (c *Collection) Count(kind Kind) int {
	n := 0
	for _, w := range c.Warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// Summary returns a text summary of the collected warnings
func (c *Collection) Summary() string {
	if len(c.Warnings) == 0 {
		return "No warnings"
	}
	return fmt.Sprintf("Found %d warning(s)", len(c.Warnings))
}

// CheckWidth is the fixed-width shape check shared by the extractors. It returns
// a fatal shape violation when tokens does not have exactly want elements.
func CheckWidth(tokens []string, want int, what string) *Error {
	if len(tokens) == want {
		return nil
	}
	return Fatal(KindShapeViolation,
		fmt.Sprintf("%s has %d token(s), expected %d", what, len(tokens), want))
}
