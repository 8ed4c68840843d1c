package importer

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell %s: %v", cell, err)
			}
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestExcelReader_ReadsFirstSheet(t *testing.T) {
	t.Parallel()

	content := buildWorkbook(t, [][]string{
		{" prdName ", "price", "goods-img-url href"},
		{"智慧手錶", "(2990)", "https://m/1"},
		{"投影機", "15900"},
	})

	records, err := (&ExcelReader{}).Read(content)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if got := records[0].Get("prdName"); got != "智慧手錶" {
		t.Fatalf("prdName = %q", got)
	}
	if got, ok := records[1].Values["goods-img-url href"]; !ok || got != "" {
		t.Fatalf("expected short excel row to fill empty value, got %q (present=%t)", got, ok)
	}
}

func TestExcelReader_RejectsInvalidContent(t *testing.T) {
	t.Parallel()

	if _, err := (&ExcelReader{}).Read([]byte("not a workbook")); err == nil {
		t.Fatalf("expected error for invalid workbook")
	}
}

func TestReaderForFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  string
		wantErr bool
	}{
		{format: ""},
		{format: "csv"},
		{format: "Excel"},
		{format: "xlsx"},
		{format: "json", wantErr: true},
	}

	for _, tc := range tests {
		_, err := ReaderForFormat(tc.format, "")
		if tc.wantErr && err == nil {
			t.Fatalf("expected error for %q", tc.format)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.format, err)
		}
	}
}
