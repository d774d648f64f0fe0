package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/SalesDash/internal/sales"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(result *sales.AnalysisResult) ([]byte, error)
}

// Options controls terminal presentation.
type Options struct {
	Color bool
	Emoji bool
}

// Names of the supported output formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatHTML     = "html"
)

// Formats lists the supported output format names.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatMarkdown, FormatCSV, FormatHTML}
}

// New returns the formatter for the given format name
func New(format string, opts Options) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText, "terminal":
		return NewTerminal(opts), nil
	case FormatJSON:
		return NewJSON(), nil
	case FormatMarkdown, "md":
		return NewMarkdown(), nil
	case FormatCSV:
		return NewCSV(), nil
	case FormatHTML:
		return NewHTML(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
}
