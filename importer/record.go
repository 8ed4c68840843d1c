package importer

import (
	"strings"
)

const byteOrderMark = "\ufeff"

// Record is one data row keyed by header name.
type Record struct {
	RowNumber int
	Values    map[string]string
}

// Get returns the first non-empty value among the candidate header names.
// Absent headers and empty cells both fall through to the next candidate.
func (r Record) Get(keys ...string) string {
	for _, key := range keys {
		if value := r.Values[key]; value != "" {
			return value
		}
	}
	return ""
}

// ToRecords pairs every data row with the header row by position.
//
// Short rows yield empty strings for the missing tail columns and cells past
// the header length are dropped. When a header name repeats, the later cell
// overwrites the earlier one in the mapping.
func ToRecords(rows [][]string) []Record {
	if len(rows) == 0 {
		return []Record{}
	}

	headers := normalizeHeaders(rows[0])
	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		values := make(map[string]string, len(headers))
		for col, header := range headers {
			if col < len(row) {
				values[header] = row[col]
			} else {
				values[header] = ""
			}
		}

		// Header occupies row 1.
		records = append(records, Record{RowNumber: i + 2, Values: values})
	}

	return records
}

func normalizeHeaders(headers []string) []string {
	normalized := make([]string, len(headers))
	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, byteOrderMark)
		}
		normalized[i] = strings.TrimSpace(header)
	}
	return normalized
}
