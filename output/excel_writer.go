package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/xa0627-sys/momoshop-watch/product"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, records []product.Record) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if err := writeExcelRow(file, sheet, 1, productHeaders); err != nil {
		return err
	}

	for i, item := range records {
		if err := writeExcelRow(file, sheet, i+2, productValues(item)); err != nil {
			return err
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

func writeExcelRow(file *excelize.File, sheet string, row int, values []string) error {
	for col, value := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := file.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("set excel value %s: %w", cell, err)
		}
	}
	return nil
}
