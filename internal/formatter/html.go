package formatter

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/yildizm/SalesDash/internal/sales"
)

//go:embed templates/report.html.tmpl
var reportFS embed.FS

var reportTemplate = template.Must(template.ParseFS(reportFS, "templates/report.html.tmpl"))

// htmlFormatter writes a standalone HTML report with inline SVG charts
type htmlFormatter struct {
	now func() time.Time
}

// NewHTML creates a new HTML report formatter
func NewHTML() Formatter {
	return &htmlFormatter{now: time.Now}
}

func (f *htmlFormatter) Format(result *sales.AnalysisResult) ([]byte, error) {
	report, err := BuildReport(result)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	data := struct {
		*Report
		Generated string
	}{report, f.now().Format("2006-01-02 15:04:05")}
	if err := reportTemplate.Execute(&b, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML report: %w", err)
	}
	return b.Bytes(), nil
}
