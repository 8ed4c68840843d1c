package importer

import (
	"fmt"
	"strings"

	"github.com/xa0627-sys/momoshop-watch/config"
	"github.com/xa0627-sys/momoshop-watch/product"
)

const (
	JoinOnURL   = "url"
	JoinOnImage = "image"
)

var priceParens = strings.NewReplacer("(", "", ")", "")

// DetailMap holds free-text specifications keyed by the join key.
type DetailMap map[string]string

// BuildDetailMap indexes detail records by the first non-empty key alias.
// Rows missing either the key or the value are skipped; a repeated key keeps
// the last value seen.
func BuildDetailMap(records []Record, keyAliases, valueAliases []string) DetailMap {
	details := make(DetailMap, len(records))
	for _, record := range records {
		key := record.Get(keyAliases...)
		value := record.Get(valueAliases...)
		if key == "" || value == "" {
			continue
		}
		details[key] = value
	}
	return details
}

// Mapper converts header-keyed records of one source into product records.
// It is driven entirely by the source's alias configuration.
type Mapper struct {
	source config.Source
}

func NewMapper(source config.Source) (*Mapper, error) {
	switch source.Join.KeyAttribute {
	case "", JoinOnURL, JoinOnImage:
	default:
		return nil, fmt.Errorf("source %s: unsupported join key attribute %q", source.ID, source.Join.KeyAttribute)
	}
	return &Mapper{source: source}, nil
}

func (m *Mapper) Map(record Record, details DetailMap) product.Record {
	fields := m.source.Fields
	item := product.Record{
		Source:      m.source.ID,
		SourceLabel: m.source.Label,
		Title:       strings.TrimSpace(record.Get(fields.Title...)),
		Price:       priceParens.Replace(record.Get(fields.Price...)),
		URL:         record.Get(fields.URL...),
		Image:       record.Get(fields.Image...),
	}

	if len(details) > 0 {
		joinKey := item.URL
		if m.source.Join.KeyAttribute == JoinOnImage {
			joinKey = item.Image
		}
		if joinKey != "" {
			item.Spec = details[joinKey]
		}
	}

	return item
}

func (m *Mapper) MapAll(records []Record, details DetailMap) []product.Record {
	items := make([]product.Record, 0, len(records))
	for _, record := range records {
		items = append(items, m.Map(record, details))
	}
	return items
}
