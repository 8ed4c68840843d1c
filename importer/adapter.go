package importer

import (
	"context"
	"fmt"

	"github.com/xa0627-sys/momoshop-watch/config"
	"github.com/xa0627-sys/momoshop-watch/product"
)

// Fetcher retrieves the raw content of a named export file.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Adapter loads one source: the optional detail file first, then the listing.
type Adapter struct {
	source config.Source
	reader Reader
	mapper *Mapper
}

// SourceResult is the outcome of loading one source.
type SourceResult struct {
	Source     product.Source
	Items      []product.Record
	Files      int
	ListRows   int
	DetailRows int
	Details    int
}

func NewAdapter(source config.Source) (*Adapter, error) {
	reader, err := ReaderForFormat(source.Format, source.Encoding)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", source.ID, err)
	}
	mapper, err := NewMapper(source)
	if err != nil {
		return nil, err
	}
	return &Adapter{source: source, reader: reader, mapper: mapper}, nil
}

// NewAdapters builds adapters for every configured source in declaration order.
func NewAdapters(sources []config.Source) ([]*Adapter, error) {
	adapters := make([]*Adapter, 0, len(sources))
	for _, source := range sources {
		adapter, err := NewAdapter(source)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, adapter)
	}
	return adapters, nil
}

func (a *Adapter) Source() product.Source {
	return product.Source{ID: a.source.ID, Label: a.source.Label}
}

func (a *Adapter) Load(ctx context.Context, fetcher Fetcher) (*SourceResult, error) {
	result := &SourceResult{Source: a.Source()}

	// The detail map must be complete before any listing row is mapped.
	var details DetailMap
	if a.source.HasDetail() {
		records, err := a.readFile(ctx, fetcher, a.source.DetailFile)
		if err != nil {
			return nil, err
		}
		details = BuildDetailMap(records, a.source.Join.Key, a.source.Join.Value)
		result.Files++
		result.DetailRows = len(records)
		result.Details = len(details)
	}

	records, err := a.readFile(ctx, fetcher, a.source.ListFile)
	if err != nil {
		return nil, err
	}
	result.Files++
	result.ListRows = len(records)
	result.Items = a.mapper.MapAll(records, details)

	return result, nil
}

func (a *Adapter) readFile(ctx context.Context, fetcher Fetcher, name string) ([]Record, error) {
	content, err := fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	records, err := a.reader.Read(content)
	if err != nil {
		return nil, fmt.Errorf("source %s: read %s: %w", a.source.ID, name, err)
	}
	return records, nil
}
