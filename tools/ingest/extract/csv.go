package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// extractCSV flattens every record into "header: value" lines so row content
// stays attached to its column name, the way CSV loaders present rows to
// retrieval pipelines.
func extractCSV(content []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse CSV: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}
	header := records[0]
	var b strings.Builder
	for _, record := range records[1:] {
		var fields []string
		for i, v := range record {
			if i < len(header) && header[i] != "" {
				fields = append(fields, header[i]+": "+v)
			} else {
				fields = append(fields, v)
			}
		}
		b.WriteString(strings.Join(fields, ", "))
		b.WriteByte('\n')
	}
	if len(records) == 1 {
		b.WriteString(strings.Join(header, ", "))
	}
	return b.String(), nil
}
