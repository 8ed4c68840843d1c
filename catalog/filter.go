package catalog

import (
	"strings"

	"github.com/xa0627-sys/momoshop-watch/product"
)

// All matches every category or source.
const All = "all"

// Selector holds the three AND-combined filter criteria.
type Selector struct {
	Category string
	Source   string
	Keyword  string
}

// AllSelector is the reset state: every category, every source, no keyword.
func AllSelector() Selector {
	return Selector{Category: All, Source: All}
}

// NewSelector builds a selector from user input. Blank category or source
// means all, and the keyword is trimmed.
func NewSelector(category, source, keyword string) Selector {
	selector := Selector{
		Category: category,
		Source:   strings.TrimSpace(source),
		Keyword:  strings.TrimSpace(keyword),
	}
	if strings.TrimSpace(selector.Category) == "" {
		selector.Category = All
	}
	if selector.Source == "" {
		selector.Source = All
	}
	return selector
}

func (s Selector) Matches(item product.Record) bool {
	if s.Category != All && item.Category != s.Category {
		return false
	}
	if s.Source != All && item.Source != s.Source {
		return false
	}
	if s.Keyword == "" {
		return true
	}
	haystack := strings.ToLower(item.Title + " " + item.Spec + " " + item.Price)
	return strings.Contains(haystack, strings.ToLower(s.Keyword))
}

// Filter returns the records matching the selector in their original order.
func Filter(records []product.Record, selector Selector) []product.Record {
	visible := make([]product.Record, 0, len(records))
	for _, item := range records {
		if selector.Matches(item) {
			visible = append(visible, item)
		}
	}
	return visible
}
