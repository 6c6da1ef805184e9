package report

import (
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/slotgraph/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Aggregate(t *testing.T) {
	long := strings.Repeat("x", 1500)
	snap := state.NewSnapshot(map[string]any{
		"portfolio_items":                  "Nvidia, Bitcoin, Gold, Tesla",
		state.MetricsKey:                   []any{"record"},
		ReportKey:                          "an older report that is long enough",
		CompleteKey:                        true,
		"meta-llama/Llama-3.2-3B-Instruct": "Risk is concentrated in tech.",
		"qwen":                             []any{"Diversify into bonds now.", 12},
		"tiny":                             "too short",
		"number":                           42,
		"findings":                         []any{"first finding", "second finding"},
		"essay":                            long,
	})

	sections := NewDefault("portfolio_items").Aggregate(snap)
	require.Len(t, sections, 4)

	assert.Equal(t, "essay", sections[0].Key)
	assert.True(t, sections[0].Truncated)
	assert.Len(t, sections[0].Content, DefaultMaxLength)

	assert.Equal(t, "findings", sections[1].Key)
	assert.Equal(t, "first finding\n\nsecond finding", sections[1].Content)

	assert.Equal(t, "meta-llama/Llama-3.2-3B-Instruct", sections[2].Key)
	assert.Equal(t, "LLAMA-3.2-3B-INSTRUCT", sections[2].Title)
	assert.False(t, sections[2].Truncated)

	assert.Equal(t, "qwen", sections[3].Key)
	assert.Equal(t, "Diversify into bonds now.", sections[3].Content)
}

func TestDefault_MinLengthIsExclusive(t *testing.T) {
	snap := state.NewSnapshot(map[string]any{
		"ten":    "0123456789",
		"eleven": "0123456789a",
	})
	sections := NewDefault().Aggregate(snap)
	require.Len(t, sections, 1)
	assert.Equal(t, "eleven", sections[0].Key)
}

func TestDefault_CountsCharactersNotBytes(t *testing.T) {
	snap := state.NewSnapshot(map[string]any{"umlaut": strings.Repeat("ä", 8)})
	assert.Empty(t, NewDefault().Aggregate(snap))
}

func TestRender(t *testing.T) {
	at := time.Date(2025, 3, 1, 14, 5, 9, 0, time.UTC)
	out := Render(Sections{{Key: "a/b", Title: "B", Content: "Body text here."}}, nil, at)

	assert.Contains(t, out, "Timestamp: 14:05:09")
	assert.Contains(t, out, "> SECTION: B\nBody text here.\n"+strings.Repeat("-", 40))
}

func TestRender_Empty(t *testing.T) {
	out := Render(nil, []string{"metrics", "portfolio_items"}, time.Now())
	assert.Contains(t, out, "no analysis content")
	assert.Contains(t, out, "Keys found: [metrics, portfolio_items]")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "ANALYST", Title("analyst"))
	assert.Equal(t, "QWEN2.5-7B", Title("Qwen/Qwen2.5-7B"))
}
