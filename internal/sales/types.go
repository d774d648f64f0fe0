// Package sales defines the analysis result produced for a raw sales dataset
// and the strict decoder used on provider responses.
package sales

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Trend is the direction of a KPI change.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Valid reports whether t is one of the known trends. The empty trend is valid.
func (t Trend) Valid() bool {
	switch t {
	case "", TrendUp, TrendDown, TrendNeutral:
		return true
	}
	return false
}

// Normalized maps an absent or unknown trend to neutral.
func (t Trend) Normalized() Trend {
	if t == TrendUp || t == TrendDown {
		return t
	}
	return TrendNeutral
}

// KPIValue is a KPI value that is either display text ("$1.2M") or a number.
type KPIValue struct {
	text     string
	number   float64
	isNumber bool
}

// TextValue returns a textual KPI value.
func TextValue(s string) KPIValue {
	return KPIValue{text: s}
}

// NumberValue returns a numeric KPI value.
func NumberValue(f float64) KPIValue {
	return KPIValue{number: f, isNumber: true}
}

// IsNumber reports whether the value was supplied as a number.
func (v KPIValue) IsNumber() bool {
	return v.isNumber
}

// Number returns the numeric value and whether the value is numeric.
func (v KPIValue) Number() (float64, bool) {
	return v.number, v.isNumber
}

// String renders the value for display.
func (v KPIValue) String() string {
	if v.isNumber {
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	}
	return v.text
}

// MarshalJSON encodes the value as the JSON kind it was decoded from.
func (v KPIValue) MarshalJSON() ([]byte, error) {
	if v.isNumber {
		return json.Marshal(v.number)
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON accepts a JSON string or number.
func (v *KPIValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = NumberValue(f)
		return nil
	}
	return fmt.Errorf("kpi value must be a string or number, got %s", data)
}

// KPI is one headline metric tile.
type KPI struct {
	Label  string   `json:"label"`
	Value  KPIValue `json:"value"`
	Change string   `json:"change,omitempty"`
	Trend  Trend    `json:"trend,omitempty"`
}

// ChartDataPoint is a (name, value) pair used by every chart series.
// Fields other than name and value are kept in Extra.
type ChartDataPoint struct {
	Name  string
	Value float64
	Extra map[string]json.RawMessage
}

// MarshalJSON flattens Extra next to name and value.
func (p ChartDataPoint) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(p.Extra)+2)
	for k, raw := range p.Extra {
		fields[k] = raw
	}

	name, err := json.Marshal(p.Name)
	if err != nil {
		return nil, err
	}
	value, err := json.Marshal(p.Value)
	if err != nil {
		return nil, err
	}
	fields["name"] = name
	fields["value"] = value

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(k)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(fields[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads name and value and keeps every other field in Extra.
func (p *ChartDataPoint) UnmarshalJSON(data []byte) error {
	var w wirePoint
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = w.point()
	return nil
}

// AnalysisResult is the structured analysis of one dataset.
type AnalysisResult struct {
	Summary             string           `json:"summary"`
	KPIs                []KPI            `json:"kpis"`
	RegionalPerformance []ChartDataPoint `json:"regionalPerformance"`
	MonthlyTrend        []ChartDataPoint `json:"monthlyTrend"`
	TopProducts         []ChartDataPoint `json:"topProducts"`
	Insights            []string         `json:"insights"`
}

// Total sums the values of a series.
func Total(points []ChartDataPoint) float64 {
	var sum float64
	for _, p := range points {
		sum += p.Value
	}
	return sum
}

// Truncate shortens s to n runes followed by "..." when it is longer.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
