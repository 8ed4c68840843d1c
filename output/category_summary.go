package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/xa0627-sys/momoshop-watch/product"
)

// CategorySummary counts the products of one category, overall and per source.
type CategorySummary struct {
	Category string
	Products int
	BySource map[string]int
}

// BuildCategorySummaries groups records by category in first-seen order.
func BuildCategorySummaries(records []product.Record) []CategorySummary {
	index := make(map[string]int)
	summaries := make([]CategorySummary, 0)

	for _, item := range records {
		i, ok := index[item.Category]
		if !ok {
			i = len(summaries)
			index[item.Category] = i
			summaries = append(summaries, CategorySummary{Category: item.Category, BySource: make(map[string]int)})
		}
		summaries[i].Products++
		summaries[i].BySource[item.Source]++
	}

	return summaries
}

// WriteCategorySummaries writes one row per category with a column per source.
func WriteCategorySummaries(path, format string, sources []string, summaries []CategorySummary) error {
	headers := append([]string{"Category", "Products"}, sources...)
	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		row := []string{summary.Category, strconv.Itoa(summary.Products)}
		for _, source := range sources {
			row = append(row, strconv.Itoa(summary.BySource[source]))
		}
		rows = append(rows, row)
	}

	switch FormatForPath(format, path) {
	case "csv":
		return writeSummaryCSV(path, headers, rows)
	case "excel", "xlsx":
		return writeSummaryExcel(path, headers, rows)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeSummaryCSV(path string, headers []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

func writeSummaryExcel(path string, headers []string, rows [][]string) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if err := writeExcelRow(file, sheet, 1, headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeExcelRow(file, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}
	return nil
}
