package catalog

import (
	"time"

	"github.com/xa0627-sys/momoshop-watch/product"
)

// Store is an immutable snapshot of the merged catalog.
// Accessors return copies so callers cannot mutate a published snapshot.
type Store struct {
	records    []product.Record
	categories []string
	sources    []product.Source
	declared   []product.Source
	loadedAt   time.Time
}

// Merge concatenates the per-source batches in order, drops records without a
// title and URL, classifies the rest, and derives the category and source
// vocabularies in a single pass.
func Merge(classifier Classifier, declared []product.Source, batches ...[]product.Record) *Store {
	total := 0
	for _, batch := range batches {
		total += len(batch)
	}

	records := make([]product.Record, 0, total)
	for _, batch := range batches {
		for _, item := range batch {
			if !item.Retained() {
				continue
			}
			item.Category = classifier.Classify(item)
			records = append(records, item)
		}
	}

	store := &Store{
		records:  records,
		declared: append([]product.Source(nil), declared...),
		loadedAt: time.Now(),
	}

	seenCategories := make(map[string]struct{})
	seenSources := make(map[string]struct{})
	for _, item := range records {
		if _, ok := seenCategories[item.Category]; !ok {
			seenCategories[item.Category] = struct{}{}
			store.categories = append(store.categories, item.Category)
		}
		if _, ok := seenSources[item.Source]; !ok {
			seenSources[item.Source] = struct{}{}
			store.sources = append(store.sources, product.Source{ID: item.Source, Label: item.SourceLabel})
		}
	}

	return store
}

// Empty returns a store with no records, used before the first load.
func Empty() *Store {
	return &Store{}
}

func (s *Store) Records() []product.Record {
	return append([]product.Record(nil), s.records...)
}

func (s *Store) Len() int {
	return len(s.records)
}

// Categories returns the distinct categories in first-seen order.
func (s *Store) Categories() []string {
	return append([]string(nil), s.categories...)
}

// Sources returns the distinct sources of retained records in first-seen order.
func (s *Store) Sources() []product.Source {
	return append([]product.Source(nil), s.sources...)
}

// Declared returns every configured source, including ones without records.
func (s *Store) Declared() []product.Source {
	return append([]product.Source(nil), s.declared...)
}

func (s *Store) LoadedAt() time.Time {
	return s.loadedAt
}

// CountBySource returns the number of retained records per source id.
func (s *Store) CountBySource() map[string]int {
	counts := make(map[string]int, len(s.sources))
	for _, item := range s.records {
		counts[item.Source]++
	}
	return counts
}

func (s *Store) Filter(selector Selector) []product.Record {
	return Filter(s.records, selector)
}
