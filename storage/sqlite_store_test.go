package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xa0627-sys/momoshop-watch/catalog"
	"github.com/xa0627-sys/momoshop-watch/importer"
	"github.com/xa0627-sys/momoshop-watch/product"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := OpenSQLite(filepath.Join(t.TempDir(), "journal_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustParseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return parsed
}

func TestSQLiteStore_RecordAndListLoads(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	first := LoadRun{
		StartedAt:  mustParseRFC3339(t, "2026-03-01T08:00:00+08:00"),
		FinishedAt: mustParseRFC3339(t, "2026-03-01T08:00:02+08:00"),
		Status:     StatusSucceeded,
		Products:   3,
		Categories: 2,
		Message:    "Loaded 3 products",
		Sources: []SourceRun{
			{Source: "momoshop", ListRows: 3, DetailRows: 1, Mapped: 3, Retained: 2},
			{Source: "shopee", ListRows: 1, Mapped: 1, Retained: 1},
		},
	}
	second := LoadRun{
		StartedAt:  mustParseRFC3339(t, "2026-03-02T08:00:00+08:00"),
		FinishedAt: mustParseRFC3339(t, "2026-03-02T08:00:01+08:00"),
		Status:     StatusFailed,
		Message:    "content unavailable: cannot load shopee.csv",
	}

	firstID, err := store.RecordLoad(first)
	if err != nil {
		t.Fatalf("record first load: %v", err)
	}
	if _, err := store.RecordLoad(second); err != nil {
		t.Fatalf("record second load: %v", err)
	}

	runs, err := store.ListLoads(0)
	if err != nil {
		t.Fatalf("list loads: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 loads, got %d", len(runs))
	}
	if runs[0].Status != StatusFailed || len(runs[0].Sources) != 0 {
		t.Fatalf("expected most recent failed load first, got %+v", runs[0])
	}
	if runs[1].ID != firstID {
		t.Fatalf("expected first load id %d, got %d", firstID, runs[1].ID)
	}
	if !runs[1].StartedAt.Equal(first.StartedAt) || !runs[1].FinishedAt.Equal(first.FinishedAt) {
		t.Fatalf("timestamps not preserved: %+v", runs[1])
	}
	if len(runs[1].Sources) != 2 || runs[1].Sources[0] != first.Sources[0] || runs[1].Sources[1] != first.Sources[1] {
		t.Fatalf("sources not preserved in order: %+v", runs[1].Sources)
	}

	limited, err := store.ListLoads(1)
	if err != nil {
		t.Fatalf("list limited loads: %v", err)
	}
	if len(limited) != 1 || limited[0].Status != StatusFailed {
		t.Fatalf("unexpected limited result: %+v", limited)
	}
}

func TestSQLiteStore_GetLoad(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	id, err := store.RecordLoad(LoadRun{
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
		Status:     StatusSucceeded,
		Products:   1,
		Categories: 1,
		Message:    "Loaded 1 products",
		Sources:    []SourceRun{{Source: "shopee", ListRows: 1, Mapped: 1, Retained: 1}},
	})
	if err != nil {
		t.Fatalf("record load: %v", err)
	}

	run, err := store.GetLoad(id)
	if err != nil {
		t.Fatalf("get load: %v", err)
	}
	if run.Products != 1 || len(run.Sources) != 1 || run.Sources[0].Source != "shopee" {
		t.Fatalf("unexpected load: %+v", run)
	}

	if _, err := store.GetLoad(id + 100); !errors.Is(err, ErrLoadNotFound) {
		t.Fatalf("expected ErrLoadNotFound, got %v", err)
	}
	if _, err := store.GetLoad(0); err == nil {
		t.Fatalf("expected error for invalid id")
	}
}

func TestSQLiteStore_DeleteLoadsBefore(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	for _, started := range []string{
		"2026-01-01T00:00:00Z",
		"2026-02-01T00:00:00Z",
		"2026-03-01T00:00:00+08:00",
	} {
		at := mustParseRFC3339(t, started)
		if _, err := store.RecordLoad(LoadRun{
			StartedAt:  at,
			FinishedAt: at,
			Status:     StatusSucceeded,
			Message:    "Loaded 0 products",
			Sources:    []SourceRun{{Source: "shopee"}},
		}); err != nil {
			t.Fatalf("record load: %v", err)
		}
	}

	deleted, err := store.DeleteLoadsBefore(mustParseRFC3339(t, "2026-02-15T00:00:00Z"))
	if err != nil {
		t.Fatalf("delete loads: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted loads, got %d", deleted)
	}

	runs, err := store.ListLoads(0)
	if err != nil {
		t.Fatalf("list loads: %v", err)
	}
	if len(runs) != 1 || len(runs[0].Sources) != 1 {
		t.Fatalf("unexpected remaining loads: %+v", runs)
	}
}

func TestNewLoadRun_SummarizesSources(t *testing.T) {
	t.Parallel()

	momoshop := product.Source{ID: "momoshop", Label: "momo"}
	shopee := product.Source{ID: "shopee", Label: "Shopee"}
	momoItems := []product.Record{
		{Source: "momoshop", Title: "智慧手錶"},
		{Source: "momoshop"},
	}
	shopeeItems := []product.Record{{Source: "shopee", Title: "藍牙耳機"}}

	result := &importer.Result{Sources: []*importer.SourceResult{
		{Source: momoshop, Items: momoItems, ListRows: 2, DetailRows: 5},
		{Source: shopee, Items: shopeeItems, ListRows: 1},
	}}
	store := catalog.Merge(catalog.DefaultClassifier(), result.Descriptors(), result.Batches()...)

	run := NewLoadRun(time.Now(), result, store, nil)
	if run.Status != StatusSucceeded || run.Products != 2 || run.Message != "Loaded 2 products" {
		t.Fatalf("unexpected run: %+v", run)
	}
	want := []SourceRun{
		{Source: "momoshop", ListRows: 2, DetailRows: 5, Mapped: 2, Retained: 1},
		{Source: "shopee", ListRows: 1, Mapped: 1, Retained: 1},
	}
	if len(run.Sources) != len(want) || run.Sources[0] != want[0] || run.Sources[1] != want[1] {
		t.Fatalf("unexpected sources:\nwant: %+v\ngot:  %+v", want, run.Sources)
	}

	failed := NewLoadRun(time.Now(), nil, nil, errors.New("boom"))
	if failed.Status != StatusFailed || failed.Message != "boom" || failed.Products != 0 {
		t.Fatalf("unexpected failed run: %+v", failed)
	}
}
