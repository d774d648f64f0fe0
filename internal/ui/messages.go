package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/SalesDash/internal/analyst"
	"github.com/yildizm/SalesDash/internal/sales"
)

// Provider results delivered back to the update loop
type sampleDoneMsg struct {
	text string
	err  error
}

type analysisDoneMsg struct {
	gen    uint64
	result *sales.AnalysisResult
	err    error
}

// tickMsg drives the spinner and the phase ticker
type tickMsg time.Time

const tickInterval = 100 * time.Millisecond

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// sampleCommand asks the provider for sample data
func sampleCommand(ctx context.Context, provider analyst.Provider) tea.Cmd {
	return func() tea.Msg {
		text, err := provider.GenerateSample(ctx)
		return sampleDoneMsg{text: text, err: err}
	}
}

// analysisCommand runs the provider analysis for raw under generation gen
func analysisCommand(ctx context.Context, provider analyst.Provider, raw string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		result, err := provider.Analyze(ctx, raw)
		return analysisDoneMsg{gen: gen, result: result, err: err}
	}
}
