// Package ui implements the terminal dashboard on Bubble Tea.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/SalesDash/internal/analyst"
	"github.com/yildizm/SalesDash/internal/dashboard"
	"github.com/yildizm/SalesDash/internal/sales"
	"github.com/yildizm/SalesDash/internal/ui/components"
)

const inputPlaceholder = "Paste your CSV data here... or click 'Auto-Generate Sample'"

// Options configures the terminal dashboard
type Options struct {
	// PhaseInterval is how long each loading phase is shown.
	PhaseInterval time.Duration
	// AltScreen runs the program in the alternate screen buffer.
	AltScreen bool
}

// Model is the Bubble Tea model for the four dashboard views. All state
// transitions go through the controller; the model only keeps presentation state.
type Model struct {
	ctx        context.Context
	controller *dashboard.Controller
	provider   analyst.Provider
	opts       Options
	now        func() time.Time

	editor  *components.Editor
	loader  *components.PhaseLoader
	styles  *Styles
	preview sales.CSVPreview

	width    int
	height   int
	scroll   int
	quitting bool
}

// NewModel creates a model over controller. provider must be the one the
// controller was built with.
func NewModel(ctx context.Context, controller *dashboard.Controller, provider analyst.Provider, opts Options) *Model {
	if opts.PhaseInterval <= 0 {
		opts.PhaseInterval = dashboard.DefaultPhaseInterval
	}
	m := &Model{
		ctx:        ctx,
		controller: controller,
		provider:   provider,
		opts:       opts,
		now:        time.Now,
		editor:     components.NewEditor(inputPlaceholder),
		loader:     components.NewPhaseLoader(dashboard.Phases),
		styles:     GetStyles(),
		width:      100,
		height:     40,
	}
	m.syncInput(controller.Snapshot())
	return m
}

// Init starts the animation ticker
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages and key presses
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.Width = min(msg.Width, 120)
		m.editor.Height = max(msg.Height-14, 4)
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		return m.handleTick()
	case sampleDoneMsg:
		m.controller.CompleteSample(msg.text, msg.err)
		m.syncInput(m.controller.Snapshot())
		return m, nil
	case analysisDoneMsg:
		m.controller.CompleteAnalysis(msg.gen, msg.result, msg.err)
		m.scroll = 0
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.controller.Snapshot().View {
	case dashboard.ViewInput:
		return m.handleInputKey(msg)
	case dashboard.ViewDashboard:
		return m.handleDashboardKey(msg)
	case dashboard.ViewError:
		return m.handleErrorKey(msg)
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.quit()
	case "ctrl+g":
		return m, m.requestSample()
	case "ctrl+r", "ctrl+s":
		return m, m.runAnalysis()
	}

	if m.controller.Snapshot().SamplePending {
		return m, nil
	}
	if m.editor.HandleKey(msg) {
		m.controller.SetRawInput(m.editor.Value())
		m.refreshPreview()
	}
	return m, nil
}

func (m *Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m.quit()
	case "n":
		m.reset()
	case "up", "k":
		m.scroll = max(0, m.scroll-1)
	case "down", "j":
		m.scroll++
	case "pgup":
		m.scroll = max(0, m.scroll-m.height/2)
	case "pgdown", " ":
		m.scroll += m.height / 2
	case "home", "g":
		m.scroll = 0
	}
	return m, nil
}

func (m *Model) handleErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m.quit()
	case "enter":
		m.reset()
	}
	return m, nil
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	m.loader.Spinner.Tick()
	s := m.controller.Snapshot()
	if s.View == dashboard.ViewAnalyzing {
		m.loader.SetCurrent(dashboard.PhaseAt(m.now().Sub(s.AnalyzingSince), m.opts.PhaseInterval))
	}
	return m, tick()
}

func (m *Model) requestSample() tea.Cmd {
	if !m.controller.BeginSample() {
		return nil
	}
	return sampleCommand(m.ctx, m.provider)
}

func (m *Model) runAnalysis() tea.Cmd {
	raw, gen, ok := m.controller.BeginAnalysis()
	if !ok {
		return nil
	}
	m.loader.SetCurrent(0)
	return analysisCommand(m.ctx, m.provider, raw, gen)
}

func (m *Model) reset() {
	m.controller.Reset()
	m.scroll = 0
	m.syncInput(m.controller.Snapshot())
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) syncInput(s dashboard.State) {
	m.editor.SetValue(s.RawInput)
	m.refreshPreview()
}

func (m *Model) refreshPreview() {
	// a malformed tail still leaves a useful partial preview
	m.preview, _ = sales.InspectCSV(m.editor.Value())
}

// Run runs the terminal dashboard until the user quits
func Run(ctx context.Context, controller *dashboard.Controller, provider analyst.Provider, opts Options) error {
	var programOpts []tea.ProgramOption
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	programOpts = append(programOpts, tea.WithContext(ctx))

	p := tea.NewProgram(NewModel(ctx, controller, provider, opts), programOpts...)
	_, err := p.Run()
	return err
}
