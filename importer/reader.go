package importer

import (
	"fmt"
	"strings"
)

// Reader turns the raw bytes of one export file into header-keyed records.
type Reader interface {
	Read(content []byte) ([]Record, error)
}

func ReaderForFormat(format, encoding string) (Reader, error) {
	switch normalizeFormat(format) {
	case "", "csv":
		return &CSVReader{Encoding: encoding}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
