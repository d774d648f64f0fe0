package sales

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DecodeError is returned when a response does not have the analysis shape.
type DecodeError struct {
	Fields []string
	Err    error
}

func (e *DecodeError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("analysis response failed structural decode: missing or invalid %s", strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("analysis response failed structural decode: %v", e.Err)
	}
	return "analysis response failed structural decode"
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is, or wraps, a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// wire shapes use pointers so that absent and null fields are told apart from zero values.
type wireResult struct {
	Summary             *string     `json:"summary" validate:"required"`
	KPIs                []wireKPI   `json:"kpis" validate:"required,dive"`
	RegionalPerformance []wirePoint `json:"regionalPerformance" validate:"required,dive"`
	MonthlyTrend        []wirePoint `json:"monthlyTrend" validate:"required,dive"`
	TopProducts         []wirePoint `json:"topProducts" validate:"required,dive"`
	Insights            []string    `json:"insights" validate:"required"`
}

type wireKPI struct {
	Label  *string   `json:"label" validate:"required"`
	Value  *KPIValue `json:"value" validate:"required"`
	Change *string   `json:"change"`
	Trend  *string   `json:"trend" validate:"omitempty,oneof=up down neutral"`
}

type wirePoint struct {
	Name  *string                    `json:"name" validate:"required"`
	Value *float64                   `json:"value" validate:"required"`
	Extra map[string]json.RawMessage `json:"-"`
}

func (w *wirePoint) UnmarshalJSON(data []byte) error {
	var known struct {
		Name  *string  `json:"name"`
		Value *float64 `json:"value"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	delete(all, "name")
	delete(all, "value")

	w.Name = known.Name
	w.Value = known.Value
	if len(all) > 0 {
		w.Extra = all
	}
	return nil
}

func (w wirePoint) point() ChartDataPoint {
	p := ChartDataPoint{Extra: w.Extra}
	if w.Name != nil {
		p.Name = *w.Name
	}
	if w.Value != nil {
		p.Value = *w.Value
	}
	return p
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeAnalysis decodes a provider response into an AnalysisResult.
// All six top-level fields must be present; sequences may be empty.
func DecodeAnalysis(data []byte) (*AnalysisResult, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, &DecodeError{Err: errors.New("empty body")}
	}

	var w wireResult
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if err := validate.Struct(w); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fieldPath(fe.Namespace()))
			}
			return nil, &DecodeError{Fields: fields, Err: err}
		}
		return nil, &DecodeError{Err: err}
	}

	return w.result(), nil
}

// fieldPath drops the wire struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func (w wireResult) result() *AnalysisResult {
	r := &AnalysisResult{
		Summary:             *w.Summary,
		KPIs:                make([]KPI, 0, len(w.KPIs)),
		RegionalPerformance: points(w.RegionalPerformance),
		MonthlyTrend:        points(w.MonthlyTrend),
		TopProducts:         points(w.TopProducts),
		Insights:            append([]string{}, w.Insights...),
	}
	for _, k := range w.KPIs {
		kpi := KPI{Label: *k.Label, Value: *k.Value}
		if k.Change != nil {
			kpi.Change = *k.Change
		}
		if k.Trend != nil {
			kpi.Trend = Trend(*k.Trend)
		}
		r.KPIs = append(r.KPIs, kpi)
	}
	return r
}

func points(in []wirePoint) []ChartDataPoint {
	out := make([]ChartDataPoint, 0, len(in))
	for _, p := range in {
		out = append(out, p.point())
	}
	return out
}
