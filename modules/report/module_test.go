package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/slotgraph/internal/handlers"
	"github.com/specialistvlad/slotgraph/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportModule(t *testing.T) {
	h := handlers.New()
	m := &Module{Now: func() time.Time { return time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC) }}
	m.Register(h)
	reg, ok := h.Get("report")
	require.True(t, ok)

	var out bytes.Buffer
	snap := state.NewSnapshot(map[string]any{
		"analyst_out":     "The portfolio is concentrated in technology.",
		"portfolio_items": "AAPL, MSFT, NVDA and some cash",
	})
	res, err := reg.Fn(context.Background(), &handlers.Call{
		Input: &Input{Exclude: []string{"portfolio_items"}, Print: true},
		State: snap,
		Out:   &out,
	})
	require.NoError(t, err)

	text := res.Value.(string)
	assert.Contains(t, text, "Timestamp: 09:30:00")
	assert.Contains(t, text, "> SECTION: ANALYST_OUT")
	assert.NotContains(t, text, "PORTFOLIO_ITEMS")
	assert.Equal(t, text+"\n", out.String())
}

func TestReportModule_SkipsRunInputs(t *testing.T) {
	h := handlers.New()
	(&Module{}).Register(h)
	reg, _ := h.Get("report")

	snap := state.NewSnapshot(map[string]any{
		"analyst_out":     "The portfolio is concentrated in technology.",
		"portfolio_items": "AAPL, MSFT, GOOG, AMZN",
		"final_data":      "seeded by the caller, long enough to report",
	})
	res, err := reg.Fn(context.Background(), &handlers.Call{
		Input:  &Input{},
		Inputs: []string{"final_data", "portfolio_items"},
		State:  snap,
	})
	require.NoError(t, err)

	text := res.Value.(string)
	assert.Contains(t, text, "> SECTION: ANALYST_OUT")
	assert.NotContains(t, text, "PORTFOLIO_ITEMS")
	assert.NotContains(t, text, "FINAL_DATA")
}
