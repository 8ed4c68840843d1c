package web

import (
	"time"

	"github.com/xa0627-sys/momoshop-watch/catalog"
	"github.com/xa0627-sys/momoshop-watch/internal/textutil"
	"github.com/xa0627-sys/momoshop-watch/product"
	"github.com/xa0627-sys/momoshop-watch/storage"
)

type ProductRow struct {
	Source      string `json:"source"`
	SourceLabel string `json:"sourceLabel"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	Spec        string `json:"spec"`
	SpecSummary string `json:"specSummary"`
	Category    string `json:"category"`
}

type ProductsView struct {
	Category string       `json:"category"`
	Source   string       `json:"source"`
	Keyword  string       `json:"keyword"`
	Total    int          `json:"total"`
	Count    int          `json:"count"`
	Products []ProductRow `json:"products"`
}

type SourceRow struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Products int    `json:"products"`
}

type LoadRow struct {
	ID         int64           `json:"id"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
	Status     string          `json:"status"`
	Products   int             `json:"products"`
	Categories int             `json:"categories"`
	Message    string          `json:"message"`
	Sources    []LoadSourceRow `json:"sources"`
}

type LoadSourceRow struct {
	Source     string `json:"source"`
	ListRows   int    `json:"listRows"`
	DetailRows int    `json:"detailRows"`
	Mapped     int    `json:"mapped"`
	Retained   int    `json:"retained"`
}

// BuildProductsView filters store with selector and renders the visible rows in catalog order.
func BuildProductsView(store *catalog.Store, selector catalog.Selector) ProductsView {
	visible := store.Filter(selector)
	rows := make([]ProductRow, 0, len(visible))
	for _, item := range visible {
		rows = append(rows, productRow(item))
	}
	return ProductsView{
		Category: selector.Category,
		Source:   selector.Source,
		Keyword:  selector.Keyword,
		Total:    store.Len(),
		Count:    len(rows),
		Products: rows,
	}
}

// BuildSourceRows lists every declared source with its retained product count.
// Sources that appear only in records are appended after the declared ones.
func BuildSourceRows(store *catalog.Store) []SourceRow {
	counts := store.CountBySource()
	rows := make([]SourceRow, 0, len(store.Declared()))
	listed := make(map[string]struct{})

	for _, group := range [][]product.Source{store.Declared(), store.Sources()} {
		for _, source := range group {
			if _, ok := listed[source.ID]; ok {
				continue
			}
			listed[source.ID] = struct{}{}
			rows = append(rows, SourceRow{ID: source.ID, Label: source.Label, Products: counts[source.ID]})
		}
	}
	return rows
}

func BuildLoadRows(runs []storage.LoadRun) []LoadRow {
	rows := make([]LoadRow, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, BuildLoadRow(run))
	}
	return rows
}

func BuildLoadRow(run storage.LoadRun) LoadRow {
	sources := make([]LoadSourceRow, 0, len(run.Sources))
	for _, source := range run.Sources {
		sources = append(sources, LoadSourceRow(source))
	}
	return LoadRow{
		ID:         run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Status:     run.Status,
		Products:   run.Products,
		Categories: run.Categories,
		Message:    run.Message,
		Sources:    sources,
	}
}

func productRow(item product.Record) ProductRow {
	return ProductRow{
		Source:      item.Source,
		SourceLabel: item.SourceLabel,
		Title:       item.Title,
		Price:       item.Price,
		URL:         item.URL,
		Image:       item.Image,
		Spec:        item.Spec,
		SpecSummary: textutil.SummarizeSpec(item.Spec),
		Category:    item.Category,
	}
}
