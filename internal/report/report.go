// Package report turns the final workflow state into human-readable report
// sections.
package report

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/specialistvlad/slotgraph/internal/state"
)

const (
	// DefaultMinLength is the length a section's content must exceed.
	DefaultMinLength = 10
	// DefaultMaxLength is where section content is truncated.
	DefaultMaxLength = 1000
	// ReportKey is the state key the report node writes.
	ReportKey = "report"
	// CompleteKey is an internal bookkeeping key.
	CompleteKey = "report_complete"
)

// Section is one titled block of the report.
type Section struct {
	Key       string
	Title     string
	Content   string
	Truncated bool
}

// Sections are ordered by key.
type Sections []Section

// Aggregator builds report sections from the final state. Implementations
// must be pure.
type Aggregator interface {
	Aggregate(snap state.Snapshot) Sections
}

// Default filters internal keys and short or empty content.
type Default struct {
	// Exclude lists keys never reported.
	Exclude []string
	// MinLength is the number of characters content must exceed.
	MinLength int
	// MaxLength truncates content; 0 disables truncation.
	MaxLength int
}

var _ Aggregator = (*Default)(nil)

// NewDefault returns the reference aggregator. Reserved and report keys are
// always excluded; extra keys, usually the run's input keys, are added.
func NewDefault(extra ...string) *Default {
	exclude := []string{state.MetricsKey, ReportKey, CompleteKey}
	for _, k := range extra {
		if !slices.Contains(exclude, k) {
			exclude = append(exclude, k)
		}
	}
	return &Default{
		Exclude:   exclude,
		MinLength: DefaultMinLength,
		MaxLength: DefaultMaxLength,
	}
}

// Aggregate implements Aggregator.
func (d *Default) Aggregate(snap state.Snapshot) Sections {
	var out Sections
	for _, key := range snap.Keys() {
		if state.IsReserved(key) || slices.Contains(d.Exclude, key) {
			continue
		}
		v, _ := snap.Get(key)
		content, ok := textOf(v)
		if !ok || utf8.RuneCountInString(content) <= d.MinLength {
			continue
		}

		s := Section{Key: key, Title: Title(key), Content: content}
		if d.MaxLength > 0 && utf8.RuneCountInString(content) > d.MaxLength {
			s.Content = string([]rune(content)[:d.MaxLength])
			s.Truncated = true
		}
		out = append(out, s)
	}
	return out
}

// Title is the last '/' segment of key, upper-cased. Resource names such as
// "meta-llama/Llama-3.2-3B-Instruct" become "LLAMA-3.2-3B-INSTRUCT".
func Title(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		key = key[i+1:]
	}
	return strings.ToUpper(key)
}

// textOf extracts reportable text: a string, the text of a [text, units]
// pair, or a list of strings joined by blank lines.
func textOf(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case fmt.Stringer:
		return val.String(), true
	case []any:
		if len(val) == 2 {
			if text, ok := val[0].(string); ok && isNumber(val[1]) {
				return text, true
			}
		}
		parts := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, "\n\n"), len(parts) > 0
	case []string:
		return strings.Join(val, "\n\n"), len(val) > 0
	default:
		return "", false
	}
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}

// Render lays the sections out as the plain-text report. keys are listed
// when there is nothing to report.
func Render(sections Sections, keys []string, at time.Time) string {
	var b strings.Builder
	b.WriteString("=== PORTFOLIO REPORT ===\n")
	fmt.Fprintf(&b, "Timestamp: %s\n\n", at.Format("15:04:05"))

	if len(sections) == 0 {
		b.WriteString("NOTE: no analysis content found in the nodes.\n")
		fmt.Fprintf(&b, "Keys found: [%s]\n", strings.Join(keys, ", "))
		return b.String()
	}

	for _, s := range sections {
		fmt.Fprintf(&b, "> SECTION: %s\n", s.Title)
		b.WriteString(s.Content)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", 40))
		b.WriteString("\n")
	}
	return b.String()
}
