package dashboard

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yildizm/SalesDash/internal/ai"
	"github.com/yildizm/SalesDash/internal/sales"
)

const scenarioCSV = "Date,Region,Product,Category,SalesAmount,Quantity\n2024-01-05,East,Widget,Gadgets,50,1\n"

func scenarioResult() *sales.AnalysisResult {
	return &sales.AnalysisResult{
		Summary:             "ok",
		KPIs:                []sales.KPI{{Label: "Revenue", Value: sales.TextValue("$100")}},
		RegionalPerformance: []sales.ChartDataPoint{{Name: "East", Value: 50}},
		MonthlyTrend:        []sales.ChartDataPoint{{Name: "Jan", Value: 50}},
		TopProducts:         []sales.ChartDataPoint{{Name: "Widget", Value: 50}},
		Insights:            []string{"Sales rose in East"},
	}
}

// fakeProvider counts calls and can hold Analyze until released.
type fakeProvider struct {
	result    *sales.AnalysisResult
	analyzErr error
	sample    string
	sampleErr error

	analyzeCalls int32
	sampleCalls  int32
	lastRaw      string

	during  func()
	release chan struct{}
}

func (f *fakeProvider) GenerateSample(ctx context.Context) (string, error) {
	atomic.AddInt32(&f.sampleCalls, 1)
	if f.release != nil {
		<-f.release
	}
	return f.sample, f.sampleErr
}

func (f *fakeProvider) Analyze(ctx context.Context, raw string) (*sales.AnalysisResult, error) {
	atomic.AddInt32(&f.analyzeCalls, 1)
	f.lastRaw = raw
	if f.during != nil {
		f.during()
	}
	if f.release != nil {
		<-f.release
	}
	return f.result, f.analyzErr
}

func TestNewController(t *testing.T) {
	c := NewController(&fakeProvider{}, nil)
	s := c.Snapshot()
	if s.View != ViewInput || s.RawInput != "" || s.Analysis != nil || s.ErrorMessage != "" {
		t.Errorf("unexpected initial state %+v", s)
	}
}

func TestRunAnalysis_EntersAnalyzingBeforeProviderSettles(t *testing.T) {
	fp := &fakeProvider{result: scenarioResult()}
	c := NewController(fp, nil)
	c.SetRawInput(scenarioCSV)

	var seen View = -1
	fp.during = func() { seen = c.Snapshot().View }

	c.RunAnalysis(context.Background())

	if seen != ViewAnalyzing {
		t.Errorf("view during provider call = %s, want analyzing", seen)
	}
	if got := c.Snapshot().View; got != ViewDashboard {
		t.Errorf("final view = %s, want dashboard", got)
	}
}

func TestRunAnalysis_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t \n"} {
		fp := &fakeProvider{result: scenarioResult()}
		c := NewController(fp, nil)
		c.SetRawInput(raw)

		c.RunAnalysis(context.Background())

		s := c.Snapshot()
		if s.View != ViewInput {
			t.Errorf("raw %q: view = %s, want input", raw, s.View)
		}
		if s.ErrorMessage != MsgEmptyInput {
			t.Errorf("raw %q: errorMessage = %q", raw, s.ErrorMessage)
		}
		if n := atomic.LoadInt32(&fp.analyzeCalls); n != 0 {
			t.Errorf("raw %q: provider called %d times", raw, n)
		}
	}
}

func TestRunAnalysis_Success(t *testing.T) {
	want := scenarioResult()
	fp := &fakeProvider{result: want}
	c := NewController(fp, nil)
	c.SetRawInput(scenarioCSV)

	c.RunAnalysis(context.Background())

	s := c.Snapshot()
	if s.View != ViewDashboard {
		t.Fatalf("view = %s, want dashboard", s.View)
	}
	if !reflect.DeepEqual(s.Analysis, scenarioResult()) {
		t.Errorf("analysis = %+v, want %+v", s.Analysis, want)
	}
	if s.ErrorMessage != "" {
		t.Errorf("errorMessage = %q, want empty", s.ErrorMessage)
	}
	if fp.lastRaw != scenarioCSV {
		t.Errorf("provider got %q", fp.lastRaw)
	}
	if !s.AnalyzingSince.IsZero() {
		t.Error("AnalyzingSince should be cleared after settling")
	}
}

func TestRunAnalysis_Failure(t *testing.T) {
	failures := []error{
		ai.NewProviderError(ai.ErrTypeNetwork, "request failed", "fake"),
		ai.NewProviderError(ai.ErrTypeEmptyResponse, "no response from AI", "fake"),
		ai.NewProviderError(ai.ErrTypeDecode, "bad shape", "fake"),
	}

	for _, failure := range failures {
		fp := &fakeProvider{analyzErr: failure}
		c := NewController(fp, nil)
		c.SetRawInput(scenarioCSV)

		c.RunAnalysis(context.Background())

		s := c.Snapshot()
		if s.View != ViewError {
			t.Errorf("%v: view = %s, want error", failure, s.View)
		}
		if s.ErrorMessage != MsgAnalysisFailed {
			t.Errorf("%v: errorMessage = %q", failure, s.ErrorMessage)
		}
		if !errors.Is(s.LastFailure, failure) {
			t.Errorf("%v: LastFailure = %v", failure, s.LastFailure)
		}
		if s.Analysis != nil {
			t.Errorf("%v: analysis should be untouched (absent), got %+v", failure, s.Analysis)
		}
	}
}

func TestRunAnalysis_FailureKeepsPriorAnalysis(t *testing.T) {
	c := NewController(&fakeProvider{}, nil)
	prior := scenarioResult()

	// Inject a retained analysis the same way a surface would observe it.
	c.state.Analysis = prior
	c.SetRawInput(scenarioCSV)

	raw, gen, ok := c.BeginAnalysis()
	if !ok || raw != scenarioCSV {
		t.Fatalf("BeginAnalysis() = %q, %v", raw, ok)
	}
	c.CompleteAnalysis(gen, nil, errors.New("boom"))

	s := c.Snapshot()
	if s.View != ViewError {
		t.Fatalf("view = %s, want error", s.View)
	}
	if s.Analysis != prior {
		t.Error("failed analysis must not clear the previous result")
	}
}

func TestCompleteAnalysis_NilResultIsFailure(t *testing.T) {
	c := NewController(&fakeProvider{}, nil)
	c.SetRawInput(scenarioCSV)
	_, gen, _ := c.BeginAnalysis()
	c.CompleteAnalysis(gen, nil, nil)

	if s := c.Snapshot(); s.View != ViewError {
		t.Errorf("view = %s, want error", s.View)
	}
}

func TestCompleteAnalysis_OutsideAnalyzingIgnored(t *testing.T) {
	c := NewController(&fakeProvider{}, nil)
	c.CompleteAnalysis(c.Snapshot().Generation, scenarioResult(), nil)

	if s := c.Snapshot(); s.View != ViewInput || s.Analysis != nil {
		t.Errorf("stray completion changed state: %+v", s)
	}
}

func TestCompleteAnalysis_StaleAfterReset(t *testing.T) {
	c := NewController(&fakeProvider{}, nil)
	c.SetRawInput("A")
	_, genA, ok := c.BeginAnalysis()
	if !ok {
		t.Fatal("first analysis did not start")
	}

	c.Reset()
	c.SetRawInput("B")
	rawB, genB, ok := c.BeginAnalysis()
	if !ok || rawB != "B" {
		t.Fatalf("BeginAnalysis() = %q, %v", rawB, ok)
	}
	if genA == genB {
		t.Fatalf("generation not advanced: %d", genB)
	}

	resultA := scenarioResult()
	resultA.Summary = "from A"
	c.CompleteAnalysis(genA, resultA, nil)

	s := c.Snapshot()
	if s.View != ViewAnalyzing || s.Analysis != nil {
		t.Fatalf("stale completion applied: view=%s analysis=%+v", s.View, s.Analysis)
	}

	resultB := scenarioResult()
	resultB.Summary = "from B"
	c.CompleteAnalysis(genB, resultB, nil)

	s = c.Snapshot()
	if s.View != ViewDashboard || s.Analysis != resultB {
		t.Errorf("view=%s analysis=%+v, want dashboard with B", s.View, s.Analysis)
	}
}

func TestCompleteAnalysis_StaleFailureAfterReset(t *testing.T) {
	c := NewController(&fakeProvider{}, nil)
	c.SetRawInput(scenarioCSV)
	_, gen, _ := c.BeginAnalysis()
	c.Reset()

	c.CompleteAnalysis(gen, nil, errors.New("late"))

	s := c.Snapshot()
	if s.View != ViewInput || s.ErrorMessage != "" || s.LastFailure != nil {
		t.Errorf("stale failure changed state: %+v", s)
	}
}

func TestBeginAnalysis_BlankInputWhileSamplePending(t *testing.T) {
	fp := &fakeProvider{sample: "a,b", release: make(chan struct{})}
	c := NewController(fp, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.RequestSample(context.Background())
	}()
	waitFor(t, func() bool { return c.Snapshot().SamplePending })

	c.SetRawInput("   ")
	c.RunAnalysis(context.Background())

	s := c.Snapshot()
	if s.ErrorMessage != MsgEmptyInput {
		t.Errorf("errorMessage = %q, want %q", s.ErrorMessage, MsgEmptyInput)
	}
	if s.View != ViewInput {
		t.Errorf("view = %s, want input", s.View)
	}
	if n := atomic.LoadInt32(&fp.analyzeCalls); n != 0 {
		t.Errorf("analyze calls = %d, want 0", n)
	}

	close(fp.release)
	wg.Wait()
}

func TestReset(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *Controller)
	}{
		{"from input with error", func(c *Controller) { c.RunAnalysis(context.Background()) }},
		{"from dashboard", func(c *Controller) {
			c.SetRawInput(scenarioCSV)
			c.RunAnalysis(context.Background())
		}},
		{"from error", func(c *Controller) {
			c.provider = &fakeProvider{analyzErr: errors.New("boom")}
			c.SetRawInput(scenarioCSV)
			c.RunAnalysis(context.Background())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(&fakeProvider{result: scenarioResult()}, nil)
			tt.setup(c)
			before := c.Snapshot().RawInput

			c.Reset()

			s := c.Snapshot()
			if s.View != ViewInput || s.Analysis != nil || s.ErrorMessage != "" {
				t.Errorf("unexpected state after reset %+v", s)
			}
			if s.RawInput != before {
				t.Errorf("reset changed raw input from %q to %q", before, s.RawInput)
			}
		})
	}
}

func TestRequestSample(t *testing.T) {
	t.Run("success replaces input", func(t *testing.T) {
		fp := &fakeProvider{sample: "Date,Region\n2024-01-01,East"}
		c := NewController(fp, nil)
		c.SetRawInput("old")

		c.RequestSample(context.Background())

		s := c.Snapshot()
		if s.RawInput != fp.sample {
			t.Errorf("raw input = %q", s.RawInput)
		}
		if s.View != ViewInput || s.SamplePending {
			t.Errorf("unexpected state %+v", s)
		}
	})

	t.Run("failure keeps input", func(t *testing.T) {
		fp := &fakeProvider{sampleErr: errors.New("offline")}
		c := NewController(fp, nil)
		c.SetRawInput("old")

		c.RequestSample(context.Background())

		s := c.Snapshot()
		if s.RawInput != "old" {
			t.Errorf("raw input = %q, want unchanged", s.RawInput)
		}
		if s.ErrorMessage != MsgSampleFailed {
			t.Errorf("errorMessage = %q", s.ErrorMessage)
		}
		if s.View != ViewInput {
			t.Errorf("view = %s, want input", s.View)
		}
	})
}

func TestRequestSample_NotReentrant(t *testing.T) {
	fp := &fakeProvider{sample: "a,b", release: make(chan struct{})}
	c := NewController(fp, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.RequestSample(context.Background())
	}()

	waitFor(t, func() bool { return c.Snapshot().SamplePending })

	c.RequestSample(context.Background())
	c.SetRawInput(scenarioCSV)
	if _, _, ok := c.BeginAnalysis(); ok {
		t.Error("analysis must not start while a sample is pending")
	}

	close(fp.release)
	wg.Wait()

	if n := atomic.LoadInt32(&fp.sampleCalls); n != 1 {
		t.Errorf("sample calls = %d, want 1", n)
	}
}

func TestRunAnalysis_NotReentrant(t *testing.T) {
	fp := &fakeProvider{result: scenarioResult(), release: make(chan struct{})}
	c := NewController(fp, nil)
	c.SetRawInput(scenarioCSV)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.RunAnalysis(context.Background())
	}()

	waitFor(t, func() bool { return atomic.LoadInt32(&fp.analyzeCalls) == 1 })

	c.RunAnalysis(context.Background())
	if c.SetRawInput("changed") {
		t.Error("raw input must not change while analyzing")
	}

	close(fp.release)
	wg.Wait()

	if n := atomic.LoadInt32(&fp.analyzeCalls); n != 1 {
		t.Errorf("analyze calls = %d, want 1", n)
	}
	if s := c.Snapshot(); s.View != ViewDashboard {
		t.Errorf("view = %s, want dashboard", s.View)
	}
}

func TestOnChange(t *testing.T) {
	c := NewController(&fakeProvider{result: scenarioResult()}, nil)

	var views []View
	c.OnChange(func(s State) { views = append(views, s.View) })

	c.SetRawInput(scenarioCSV)
	c.RunAnalysis(context.Background())
	c.Reset()

	want := []View{ViewInput, ViewAnalyzing, ViewDashboard, ViewInput}
	if !reflect.DeepEqual(views, want) {
		t.Errorf("observed %v, want %v", views, want)
	}
}

func TestScenario_EmptyThenAnalyze(t *testing.T) {
	c := NewController(&fakeProvider{result: scenarioResult()}, nil)

	c.RunAnalysis(context.Background())
	s := c.Snapshot()
	if s.ErrorMessage != "Please enter or generate some data first." || s.View != ViewInput {
		t.Fatalf("unexpected state %+v", s)
	}

	c.SetRawInput(scenarioCSV)
	c.RunAnalysis(context.Background())
	s = c.Snapshot()
	if s.View != ViewDashboard || len(s.Analysis.KPIs) != 1 || s.Analysis.KPIs[0].Label != "Revenue" {
		t.Errorf("unexpected state %+v", s)
	}
	if s.ErrorMessage != "" {
		t.Errorf("analysis should clear the inline error, got %q", s.ErrorMessage)
	}
}

func TestStateHelpers(t *testing.T) {
	s := State{View: ViewInput, RawInput: " "}
	if s.CanAnalyze() {
		t.Error("blank input should not be analyzable")
	}
	s.RawInput = "a,b"
	if !s.CanAnalyze() {
		t.Error("non-blank input should be analyzable")
	}
	s.SamplePending = true
	if s.CanAnalyze() {
		t.Error("pending sample should disable analysis")
	}
	if (State{}).DisplayError() != MsgUnknownError {
		t.Error("expected fallback error text")
	}
	if ViewDashboard.String() != "dashboard" {
		t.Errorf("String() = %s", ViewDashboard.String())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}
