package sales

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// CSVPreview is a lenient summary of pasted CSV text.
type CSVPreview struct {
	Columns []string
	Rows    int
}

// Empty reports whether no header was found.
func (p CSVPreview) Empty() bool {
	return len(p.Columns) == 0
}

// InspectCSV reads the header and counts data rows. It is informational only;
// a parse error returns what was read so far together with the error.
func InspectCSV(raw string) (CSVPreview, error) {
	var preview CSVPreview
	if strings.TrimSpace(raw) == "" {
		return preview, nil
	}

	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return preview, nil
		}
		if err != nil {
			return preview, err
		}
		if isBlankRecord(record) {
			continue
		}
		if preview.Columns == nil {
			preview.Columns = record
			continue
		}
		preview.Rows++
	}
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
