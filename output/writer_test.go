package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/xa0627-sys/momoshop-watch/product"
)

func testRecords() []product.Record {
	return []product.Record{
		{Source: "momoshop", SourceLabel: "momo", Category: "手錶", Title: "智慧手錶", Price: "2990", URL: "https://m/1", Spec: "防水\n藍牙"},
		{Source: "shopee", SourceLabel: "Shopee", Category: "耳機", Title: "藍牙耳機", Price: "1,299", URL: "https://s/1"},
		{Source: "momoshop", SourceLabel: "momo", Category: "手錶", Title: "運動手錶", Price: "3500"},
	}
}

func TestCSVWriter_WritesHeaderAndRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "products.csv")
	if err := (&CSVWriter{}).Write(path, testRecords()); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(rows))
	}
	if !reflect.DeepEqual(rows[0], productHeaders) {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	want := []string{"shopee", "Shopee", "耳機", "藍牙耳機", "1,299", "https://s/1", "", ""}
	if !reflect.DeepEqual(rows[2], want) {
		t.Fatalf("unexpected row:\nwant: %v\ngot:  %v", want, rows[2])
	}
	if rows[1][7] != "防水 藍牙" {
		t.Fatalf("expected summarized spec, got %q", rows[1][7])
	}
}

func TestExcelWriter_WritesFirstSheet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "products.xlsx")
	if err := (&ExcelWriter{}).Write(path, testRecords()); err != nil {
		t.Fatalf("write excel: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open excel: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows(file.GetSheetName(0))
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 4 || rows[0][0] != "Source" || rows[3][3] != "運動手錶" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestWriterForFormat(t *testing.T) {
	t.Parallel()

	if _, ok := mustWriter(t, "CSV").(*CSVWriter); !ok {
		t.Fatalf("expected csv writer")
	}
	if _, ok := mustWriter(t, " xlsx ").(*ExcelWriter); !ok {
		t.Fatalf("expected excel writer")
	}
	if _, err := WriterForFormat("pdf"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestFormatForPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		path   string
		want   string
	}{
		{format: "", path: "out.xlsx", want: "excel"},
		{format: "", path: "out.CSV", want: "csv"},
		{format: "", path: "out", want: "csv"},
		{format: "Excel", path: "out.csv", want: "excel"},
	}
	for _, tt := range tests {
		if got := FormatForPath(tt.format, tt.path); got != tt.want {
			t.Fatalf("FormatForPath(%q, %q) = %q, want %q", tt.format, tt.path, got, tt.want)
		}
	}
}

func TestBuildCategorySummaries(t *testing.T) {
	t.Parallel()

	summaries := BuildCategorySummaries(testRecords())
	if len(summaries) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(summaries))
	}
	if summaries[0].Category != "手錶" || summaries[0].Products != 2 || summaries[0].BySource["momoshop"] != 2 {
		t.Fatalf("unexpected first summary: %+v", summaries[0])
	}
	if summaries[1].Category != "耳機" || summaries[1].BySource["shopee"] != 1 {
		t.Fatalf("unexpected second summary: %+v", summaries[1])
	}
}

func TestWriteCategorySummaries_CSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "categories.csv")
	summaries := BuildCategorySummaries(testRecords())
	if err := WriteCategorySummaries(path, "", []string{"momoshop", "shopee"}, summaries); err != nil {
		t.Fatalf("write summaries: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read summaries: %v", err)
	}
	want := "Category,Products,momoshop,shopee\n手錶,2,2,0\n耳機,1,0,1\n"
	if string(content) != want {
		t.Fatalf("unexpected content:\nwant: %q\ngot:  %q", want, string(content))
	}
}

func mustWriter(t *testing.T, format string) Writer {
	t.Helper()
	writer, err := WriterForFormat(format)
	if err != nil {
		t.Fatalf("writer for %q: %v", format, err)
	}
	return writer
}
