package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xa0627-sys/momoshop-watch/product"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, records []product.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(productHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, item := range records {
		if err := writer.Write(productValues(item)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
