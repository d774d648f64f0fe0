package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yildizm/SalesDash/internal/analyst"
	"github.com/yildizm/SalesDash/internal/logger"
	"github.com/yildizm/SalesDash/internal/sales"
)

// Controller owns the dashboard state and mediates every provider call.
//
// Provider calls are made without holding the lock, so Snapshot observes
// ViewAnalyzing while an analysis is in flight. Analysis starts only from the
// Input view: a second RunAnalysis while one is in flight is ignored, as is
// one issued while a sample request is pending or a second sample request.
type Controller struct {
	provider analyst.Provider
	logger   *logger.Logger
	now      func() time.Time

	mu        sync.Mutex
	state     State
	observers []func(State)
}

// NewController creates a controller in the Input view with empty input
func NewController(provider analyst.Provider, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Discard()
	}
	return &Controller{
		provider: provider,
		logger:   log.WithComponent("controller"),
		now:      time.Now,
		state:    State{View: ViewInput},
	}
}

// OnChange registers fn to receive every committed state. fn runs synchronously
// after the lock is released and must not block.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// update applies fn under the lock and notifies observers when fn reports a change.
func (c *Controller) update(fn func(s *State) bool) bool {
	c.mu.Lock()
	changed := fn(&c.state)
	snapshot := c.state
	observers := append([]func(State){}, c.observers...)
	c.mu.Unlock()

	if changed {
		for _, o := range observers {
			o(snapshot)
		}
	}
	return changed
}

// SetRawInput replaces the raw input. It is accepted only in the Input view.
func (c *Controller) SetRawInput(text string) bool {
	return c.update(func(s *State) bool {
		if s.View != ViewInput {
			return false
		}
		s.RawInput = text
		return true
	})
}

// Reset returns to the Input view and drops the analysis and error. Raw input is kept.
func (c *Controller) Reset() {
	c.update(func(s *State) bool {
		s.View = ViewInput
		s.Analysis = nil
		s.ErrorMessage = ""
		s.AnalyzingSince = time.Time{}
		s.Generation++
		return true
	})
}

// BeginSample marks a sample request as pending. It returns false when one
// is already pending.
func (c *Controller) BeginSample() bool {
	return c.update(func(s *State) bool {
		if s.SamplePending {
			return false
		}
		s.SamplePending = true
		return true
	})
}

// CompleteSample applies the outcome of a sample request. The view is not changed.
func (c *Controller) CompleteSample(text string, err error) {
	if err != nil {
		c.logger.ErrorWithFields("sample generation failed", []logger.Field{logger.Error(err)})
	}
	c.update(func(s *State) bool {
		s.SamplePending = false
		if err != nil {
			s.ErrorMessage = MsgSampleFailed
			s.LastFailure = err
			return true
		}
		s.RawInput = text
		return true
	})
}

// RequestSample asks the provider for sample data and stores it as the raw input
func (c *Controller) RequestSample(ctx context.Context) {
	if !c.BeginSample() {
		c.logger.Debug("sample request ignored: one is already pending")
		return
	}
	text, err := c.provider.GenerateSample(ctx)
	c.CompleteSample(text, err)
}

// BeginAnalysis validates the input and switches to the Analyzing view. It
// returns the raw input to analyze, the generation the result must be
// completed with, and true when the provider should be called. Blank input
// always sets MsgEmptyInput, even while another request is in flight.
func (c *Controller) BeginAnalysis() (string, uint64, bool) {
	var (
		raw     string
		gen     uint64
		started bool
	)

	c.update(func(s *State) bool {
		if !hasContent(s.RawInput) {
			s.ErrorMessage = MsgEmptyInput
			return true
		}
		if s.View != ViewInput || s.SamplePending {
			return false
		}
		s.ErrorMessage = ""
		s.View = ViewAnalyzing
		s.AnalyzingSince = c.now()
		s.Generation++
		raw = s.RawInput
		gen = s.Generation
		started = true
		return true
	})

	return raw, gen, started
}

// CompleteAnalysis applies exactly one terminal transition out of Analyzing.
// It is a no-op outside the Analyzing view or when gen belongs to a run that
// was reset or superseded. On failure the previous analysis is left as it was.
func (c *Controller) CompleteAnalysis(gen uint64, result *sales.AnalysisResult, err error) {
	if err == nil && result == nil {
		err = errNilResult
	}

	applied := c.update(func(s *State) bool {
		if s.View != ViewAnalyzing || s.Generation != gen {
			return false
		}
		s.AnalyzingSince = time.Time{}
		if err != nil {
			s.View = ViewError
			s.ErrorMessage = MsgAnalysisFailed
			s.LastFailure = err
			return true
		}
		s.View = ViewDashboard
		s.Analysis = result
		return true
	})

	switch {
	case !applied:
		c.logger.Debug("discarding stale analysis result (generation %d)", gen)
	case err != nil:
		c.logger.ErrorWithFields("analysis failed", []logger.Field{logger.Error(err)})
	}
}

// RunAnalysis analyzes the current raw input. It blocks until the provider settles.
func (c *Controller) RunAnalysis(ctx context.Context) {
	raw, gen, ok := c.BeginAnalysis()
	if !ok {
		return
	}
	result, err := c.provider.Analyze(ctx, raw)
	c.CompleteAnalysis(gen, result, err)
}

func hasContent(s string) bool {
	return strings.TrimSpace(s) != ""
}
