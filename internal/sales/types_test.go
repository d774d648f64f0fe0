package sales

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestKPIValueUnmarshal(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantString string
		wantNumber bool
		wantErr    bool
	}{
		{"text", `"$1.2M"`, "$1.2M", false, false},
		{"integer", `1200`, "1200", true, false},
		{"float", `12.5`, "12.5", true, false},
		{"negative", `-3`, "-3", true, false},
		{"bool rejected", `true`, "", false, true},
		{"object rejected", `{"a":1}`, "", false, true},
		{"array rejected", `[1]`, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v KPIValue
			err := json.Unmarshal([]byte(tt.input), &v)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.String() != tt.wantString {
				t.Errorf("String() = %q, want %q", v.String(), tt.wantString)
			}
			if v.IsNumber() != tt.wantNumber {
				t.Errorf("IsNumber() = %v, want %v", v.IsNumber(), tt.wantNumber)
			}
		})
	}
}

func TestKPIValueMarshalKeepsKind(t *testing.T) {
	kpis := []KPI{
		{Label: "Revenue", Value: TextValue("$100")},
		{Label: "Units", Value: NumberValue(42), Change: "+5%", Trend: TrendUp},
	}

	data, err := json.Marshal(kpis)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `[{"label":"Revenue","value":"$100"},{"label":"Units","value":42,"change":"+5%","trend":"up"}]`
	if string(data) != want {
		t.Errorf("got %s\nwant %s", data, want)
	}
}

func TestTrendNormalized(t *testing.T) {
	tests := map[Trend]Trend{
		"":           TrendNeutral,
		TrendUp:      TrendUp,
		TrendDown:    TrendDown,
		TrendNeutral: TrendNeutral,
		"sideways":   TrendNeutral,
	}
	for in, want := range tests {
		if got := in.Normalized(); got != want {
			t.Errorf("Trend(%q).Normalized() = %q, want %q", in, got, want)
		}
	}
	if Trend("sideways").Valid() {
		t.Error("unknown trend should not be valid")
	}
}

func TestChartDataPointExtraFields(t *testing.T) {
	var p ChartDataPoint
	if err := json.Unmarshal([]byte(`{"name":"East","value":50,"units":12,"share":"20%"}`), &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if p.Name != "East" || p.Value != 50 {
		t.Errorf("got %+v", p)
	}
	if len(p.Extra) != 2 {
		t.Fatalf("expected 2 extra fields, got %d", len(p.Extra))
	}
	if string(p.Extra["units"]) != "12" {
		t.Errorf("units = %s", p.Extra["units"])
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"name":"East","share":"20%","units":12,"value":50}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestTruncate(t *testing.T) {
	short := "Widget sales rose"
	if got := Truncate(short, 40); got != short {
		t.Errorf("short string changed: %q", got)
	}

	long := strings.Repeat("a", 45)
	got := Truncate(long, 40)
	if got != strings.Repeat("a", 40)+"..." {
		t.Errorf("Truncate() = %q", got)
	}
}

func TestTotal(t *testing.T) {
	points := []ChartDataPoint{{Name: "a", Value: 1.5}, {Name: "b", Value: 2.5}}
	if got := Total(points); got != 4 {
		t.Errorf("Total() = %v, want 4", got)
	}
	if got := Total(nil); got != 0 {
		t.Errorf("Total(nil) = %v, want 0", got)
	}
}
