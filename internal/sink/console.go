package sink

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Console prints a metric summary of the run.
type Console struct {
	W io.Writer
}

// NewConsole returns a summary printer writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{W: w}
}

// Export implements Sink.
func (c *Console) Export(_ context.Context, run Run) error {
	records := run.Records()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(recordHeaders...).
		Rows(recordRows(records)...)

	title := fmt.Sprintf("Run %s %s in %s (%d nodes)", run.ID, run.Status(), run.Duration.Round(time.Millisecond), len(records))
	_, err := fmt.Fprintf(c.W, "%s\n%s\n", titleStyle.Render(title), t.String())
	return err
}
