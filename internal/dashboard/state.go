// Package dashboard holds the view-state controller shared by every surface.
package dashboard

import (
	"time"

	"github.com/yildizm/SalesDash/internal/sales"
)

// View is the active screen. Exactly one is active at a time.
type View int

const (
	ViewInput View = iota
	ViewAnalyzing
	ViewDashboard
	ViewError
)

func (v View) String() string {
	switch v {
	case ViewInput:
		return "input"
	case ViewAnalyzing:
		return "analyzing"
	case ViewDashboard:
		return "dashboard"
	case ViewError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText lets View appear by name in JSON snapshots.
func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// User-facing messages. Underlying causes are logged, never shown.
const (
	MsgSampleFailed   = "Failed to generate sample data. Please try again."
	MsgEmptyInput     = "Please enter or generate some data first."
	MsgAnalysisFailed = "Analysis failed. The data might be too complex or malformed. Try generating sample data."
	MsgUnknownError   = "An unknown error occurred."
)

// State is a snapshot of the controller. Analysis is shared, not copied; it is
// never mutated after the provider returns it.
type State struct {
	View          View                  `json:"view"`
	RawInput      string                `json:"rawInput"`
	Analysis      *sales.AnalysisResult `json:"analysis,omitempty"`
	ErrorMessage  string                `json:"errorMessage,omitempty"`
	SamplePending bool                  `json:"samplePending"`

	// AnalyzingSince is when the current analysis began; zero outside ViewAnalyzing.
	AnalyzingSince time.Time `json:"analyzingSince,omitempty"`

	// LastFailure is the underlying cause of the last provider failure.
	LastFailure error `json:"-"`

	// Generation identifies the current analysis run. BeginAnalysis and Reset
	// advance it; a completion carrying an older value is discarded.
	Generation uint64 `json:"-"`
}

// HasError reports whether an error message is set
func (s State) HasError() bool {
	return s.ErrorMessage != ""
}

// CanAnalyze reports whether the analyze trigger should be enabled
func (s State) CanAnalyze() bool {
	return s.View == ViewInput && !s.SamplePending && hasContent(s.RawInput)
}

// DisplayError returns the error message, or the generic fallback
func (s State) DisplayError() string {
	if s.ErrorMessage == "" {
		return MsgUnknownError
	}
	return s.ErrorMessage
}
