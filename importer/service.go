package importer

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/xa0627-sys/momoshop-watch/internal/logutil"
	"github.com/xa0627-sys/momoshop-watch/product"
)

type Result struct {
	Sources     []*SourceResult
	FilesLoaded int
	RowsRead    int
	RowsMapped  int
}

// Batches returns the mapped records per source in declaration order.
func (r *Result) Batches() [][]product.Record {
	batches := make([][]product.Record, 0, len(r.Sources))
	for _, source := range r.Sources {
		batches = append(batches, source.Items)
	}
	return batches
}

// Descriptors returns the source descriptors in declaration order.
func (r *Result) Descriptors() []product.Source {
	descriptors := make([]product.Source, 0, len(r.Sources))
	for _, source := range r.Sources {
		descriptors = append(descriptors, source.Source)
	}
	return descriptors
}

// Run loads every source concurrently and returns their results in
// declaration order. The first fetch or read failure cancels the remaining
// sources and is returned unchanged.
func Run(ctx context.Context, fetcher Fetcher, adapters []*Adapter) (*Result, error) {
	results := make([]*SourceResult, len(adapters))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, adapter := range adapters {
		group.Go(func() error {
			sourceResult, err := adapter.Load(groupCtx, fetcher)
			if err != nil {
				return err
			}
			results[i] = sourceResult
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Sources: results}
	for _, sourceResult := range results {
		result.FilesLoaded += sourceResult.Files
		result.RowsRead += sourceResult.ListRows
		result.RowsMapped += len(sourceResult.Items)

		logutil.Log.WithFields(logrus.Fields{
			"source":      sourceResult.Source.ID,
			"list_rows":   sourceResult.ListRows,
			"detail_rows": sourceResult.DetailRows,
			"details":     sourceResult.Details,
			"mapped":      len(sourceResult.Items),
		}).Debug("source loaded")
	}

	return result, nil
}
