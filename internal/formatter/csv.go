package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/yildizm/SalesDash/internal/sales"
)

// csvFormatter flattens the analysis into section,name,value,change,trend rows
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(result *sales.AnalysisResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no analysis to format")
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	rows := [][]string{{"Section", "Name", "Value", "Change", "Trend"}}
	rows = append(rows, []string{"summary", "", oneLine(result.Summary), "", ""})
	for _, k := range result.KPIs {
		rows = append(rows, []string{"kpi", k.Label, k.Value.String(), k.Change, string(k.Trend)})
	}
	rows = appendPoints(rows, "region", result.RegionalPerformance)
	rows = appendPoints(rows, "month", result.MonthlyTrend)
	rows = appendPoints(rows, "product", result.TopProducts)
	for _, insight := range result.Insights {
		rows = append(rows, []string{"insight", "", oneLine(insight), "", ""})
	}

	for _, record := range rows {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}

func appendPoints(rows [][]string, section string, points []sales.ChartDataPoint) [][]string {
	for _, p := range points {
		rows = append(rows, []string{section, p.Name, strconv.FormatFloat(p.Value, 'f', -1, 64), "", ""})
	}
	return rows
}
