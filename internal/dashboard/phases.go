package dashboard

import "time"

// DefaultPhaseInterval is how long each loading phase is shown.
const DefaultPhaseInterval = 1200 * time.Millisecond

// Phases are the loading messages shown while an analysis is in flight.
var Phases = []string{
	"Reading CSV Data...",
	"Cleaning & Preprocessing with Pandas...",
	"Generating Power BI Visualizations...",
	"Finalizing Dashboard...",
}

// PhaseAt returns the phase index for the time elapsed since the analysis
// began. It advances once per interval and stops at the last phase.
func PhaseAt(elapsed, interval time.Duration) int {
	if interval <= 0 {
		interval = DefaultPhaseInterval
	}
	if elapsed < 0 {
		return 0
	}
	i := int(elapsed / interval)
	if i >= len(Phases) {
		return len(Phases) - 1
	}
	return i
}
