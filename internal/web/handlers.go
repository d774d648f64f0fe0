package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/yildizm/SalesDash/internal/dashboard"
	"github.com/yildizm/SalesDash/internal/logger"
)

// stateResponse is the JSON view of the controller state.
type stateResponse struct {
	dashboard.State
	Phase      string `json:"phase,omitempty"`
	CanAnalyze bool   `json:"canAnalyze"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	p, err := s.buildPage(s.controller.Snapshot())
	if err != nil {
		s.logger.ErrorWithFields("failed to build page", []logger.Field{logger.Error(err)})
		problem(w, http.StatusInternalServerError, "Internal Server Error", "failed to prepare dashboard")
		return
	}
	s.render(w, p)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st := s.controller.Snapshot()
	resp := stateResponse{State: st, CanAnalyze: st.CanAnalyze()}
	if st.View == dashboard.ViewAnalyzing {
		resp.Phase = dashboard.Phases[dashboard.PhaseAt(s.now().Sub(st.AnalyzingSince), s.cfg.PhaseInterval)]
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleInput stores the submitted raw input.
func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	if !s.readInput(w, r) {
		return
	}
	s.redirectHome(w, r)
}

// handleSample starts a sample request unless one is already pending.
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	if s.controller.BeginSample() {
		s.spawn(func(ctx context.Context) {
			text, err := s.provider.GenerateSample(ctx)
			s.controller.CompleteSample(text, err)
		})
	} else {
		s.logger.Debug("sample request ignored: one is already pending")
	}
	s.redirectHome(w, r)
}

// handleAnalyze applies any submitted input, then starts the analysis.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.readInput(w, r) {
		return
	}
	if raw, gen, ok := s.controller.BeginAnalysis(); ok {
		s.spawn(func(ctx context.Context) {
			result, err := s.provider.Analyze(ctx, raw)
			s.controller.CompleteAnalysis(gen, result, err)
		})
	}
	s.redirectHome(w, r)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.controller.Reset()
	s.redirectHome(w, r)
}

// readInput applies the rawInput form field when present. It writes a problem
// response and returns false when the form cannot be read.
func (s *Server) readInput(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxInputBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			problem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", "sales data exceeds the configured limit")
			return false
		}
		problem(w, http.StatusBadRequest, "Bad Request", "invalid form submission")
		return false
	}
	if _, ok := r.PostForm["rawInput"]; ok {
		s.controller.SetRawInput(r.PostForm.Get("rawInput"))
	}
	return true
}

func (s *Server) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
