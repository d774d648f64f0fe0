package web

import (
	"bytes"
	"embed"
	"html/template"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/yildizm/SalesDash/internal/dashboard"
	"github.com/yildizm/SalesDash/internal/formatter"
	"github.com/yildizm/SalesDash/internal/logger"
	"github.com/yildizm/SalesDash/internal/sales"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("layout.html.tmpl").
	Funcs(template.FuncMap{"join": func(items []string) string { return strings.Join(items, ", ") }}).
	ParseFS(templateFS, "templates/*.html.tmpl"))

// phaseView is one loading step with its progress marker.
type phaseView struct {
	Text   string
	Done   bool
	Active bool
}

// page is the data handed to the templates.
type page struct {
	View    string
	State   dashboard.State
	Refresh int
	Preview *sales.CSVPreview
	Phase   string
	Phases  []phaseView
	Report  *formatter.Report
}

// buildPage derives the template data for the current state.
func (s *Server) buildPage(st dashboard.State) (*page, error) {
	p := &page{View: st.View.String(), State: st}

	switch st.View {
	case dashboard.ViewInput:
		if preview, err := sales.InspectCSV(st.RawInput); err == nil && !preview.Empty() {
			p.Preview = &preview
		}
		if st.SamplePending {
			p.Refresh = 1
		}
	case dashboard.ViewAnalyzing:
		current := dashboard.PhaseAt(s.now().Sub(st.AnalyzingSince), s.cfg.PhaseInterval)
		p.Phase = dashboard.Phases[current]
		for i, text := range dashboard.Phases {
			p.Phases = append(p.Phases, phaseView{Text: text, Done: i < current, Active: i == current})
		}
		p.Refresh = refreshSeconds(s.cfg.PhaseInterval)
	case dashboard.ViewDashboard:
		report, err := formatter.BuildReport(st.Analysis)
		if err != nil {
			return nil, err
		}
		p.Report = report
	}
	return p, nil
}

// refreshSeconds rounds the phase interval up to whole seconds for meta refresh.
func refreshSeconds(d time.Duration) int {
	n := int(math.Ceil(d.Seconds()))
	if n < 1 {
		return 1
	}
	return n
}

func (s *Server) render(w http.ResponseWriter, p *page) {
	var b bytes.Buffer
	if err := pageTemplate.Execute(&b, p); err != nil {
		s.logger.ErrorWithFields("render failed", []logger.Field{logger.Error(err), logger.F("view", p.View)})
		problem(w, http.StatusInternalServerError, "Internal Server Error", "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(b.Bytes()); err != nil {
		s.logger.Debug("write response: %v", err)
	}
}
