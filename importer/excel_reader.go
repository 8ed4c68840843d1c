package importer

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelReader reads the first sheet of an .xlsx scraper export.
type ExcelReader struct{}

func (r *ExcelReader) Read(content []byte) ([]Record, error) {
	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open excel content: %w", err)
	}
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("excel content has no sheets")
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}

	return ToRecords(rows), nil
}
