package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xa0627-sys/momoshop-watch/internal/textutil"
	"github.com/xa0627-sys/momoshop-watch/product"
)

// Writer exports a filtered product view to a file.
type Writer interface {
	Write(path string, records []product.Record) error
}

var productHeaders = []string{"Source", "SourceLabel", "Category", "Title", "Price", "URL", "Image", "Spec"}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatForPath returns format when set, otherwise infers it from the file extension.
func FormatForPath(format, path string) string {
	if normalizeFormat(format) != "" {
		return normalizeFormat(format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return "excel"
	default:
		return "csv"
	}
}

func productValues(item product.Record) []string {
	return []string{
		item.Source,
		item.SourceLabel,
		item.Category,
		item.Title,
		item.Price,
		item.URL,
		item.Image,
		textutil.SummarizeSpec(item.Spec),
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
