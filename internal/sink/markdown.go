package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/instrument"
)

var recordHeaders = []string{"Node", "Resource", "Duration (s)", "Units", "Throughput (u/s)", "Allocated (MB)", "Reserved (MB)"}

// Markdown appends one section per run to a performance journal file.
type Markdown struct {
	Path string

	mu   sync.Mutex
	open func(path string) (io.WriteCloser, error)
}

// NewMarkdown returns a journal sink writing to path.
func NewMarkdown(path string) *Markdown {
	return &Markdown{Path: path, open: openJournal}
}

func openJournal(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// Export implements Sink. A failed close is reported since the append may
// not have reached disk.
func (m *Markdown) Export(ctx context.Context, run Run) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	open := m.open
	if open == nil {
		open = openJournal
	}
	f, err := open(m.Path)
	if err != nil {
		return fmt.Errorf("open journal %s: %w", m.Path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close journal %s: %w", m.Path, cerr))
		}
	}()

	if _, err := io.WriteString(f, journalEntry(run)); err != nil {
		return fmt.Errorf("write journal %s: %w", m.Path, err)
	}
	ctxlog.FromContext(ctx).Info("Markdown journal updated.", "path", m.Path, "run_id", run.ID)
	return nil
}

func journalEntry(run Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n# Run: %s\n\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- run id: `%s`\n", run.ID)
	if run.Pipeline != "" {
		fmt.Fprintf(&b, "- pipeline: `%s`\n", run.Pipeline)
	}
	fmt.Fprintf(&b, "- status: %s\n", run.Status())
	fmt.Fprintf(&b, "- duration: %s\n", run.Duration.Round(10*time.Millisecond))
	if run.Err != nil {
		fmt.Fprintf(&b, "- error: %s\n", run.Err)
	}
	b.WriteString("\n")
	b.WriteString(markdownTable(run.Records()))
	b.WriteString("\n\n---\n")
	return b.String()
}

func markdownTable(records []instrument.Record) string {
	return table.New().
		Border(lipgloss.MarkdownBorder()).
		BorderTop(false).
		BorderBottom(false).
		StyleFunc(func(int, int) lipgloss.Style { return cellStyle }).
		Headers(recordHeaders...).
		Rows(recordRows(records)...).
		String()
}

func recordRows(records []instrument.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		resource := r.Resource
		if resource == "" {
			resource = "-"
		}
		rows = append(rows, []string{
			r.Node,
			resource,
			formatFloat(r.DurationSec),
			strconv.Itoa(r.Units),
			formatFloat(r.Throughput),
			formatFloat(r.ResourceUsage.AllocatedMB),
			formatFloat(r.ResourceUsage.ReservedMB),
		})
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
