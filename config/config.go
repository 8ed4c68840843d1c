package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyDataLocation          = "data.location"
	KeyFetchRetryMax         = "fetch.retry_max"
	KeyFetchTimeout          = "fetch.timeout"
	KeyServerPort            = "server.port"
	KeyJournalPath           = "journal.path"
	KeyLogLevel              = "log.level"
	KeyClassifierCatIDPrefix = "classifier.catid_prefix"
	KeyClassifierFallback    = "classifier.fallback"
	KeyClassifierRules       = "classifier.rules"
	KeySources               = "sources"

	EnvPrefix = "MOMOSHOP"
)

type Config struct {
	Data       DataConfig       `mapstructure:"data"`
	Fetch      FetchConfig      `mapstructure:"fetch"`
	Server     ServerConfig     `mapstructure:"server"`
	Journal    JournalConfig    `mapstructure:"journal"`
	Log        LogConfig        `mapstructure:"log"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Sources    []Source         `mapstructure:"sources" validate:"required,min=1,dive"`
}

type DataConfig struct {
	// Location is a local directory or an http(s) base URL holding the export files.
	Location string `mapstructure:"location" validate:"required"`
}

type FetchConfig struct {
	RetryMax int           `mapstructure:"retry_max" validate:"min=0,max=10"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

type JournalConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn warning error fatal"`
}

type ClassifierConfig struct {
	CatIDPrefix string           `mapstructure:"catid_prefix"`
	Fallback    string           `mapstructure:"fallback" validate:"required"`
	Rules       []ClassifierRule `mapstructure:"rules" validate:"dive"`
}

// ClassifierRule maps a title keyword to a category label.
type ClassifierRule struct {
	Keyword  string `mapstructure:"keyword" validate:"required"`
	Category string `mapstructure:"category" validate:"required"`
}

// Source describes one scraping export and how its columns map onto product fields.
type Source struct {
	ID         string       `mapstructure:"id" validate:"required"`
	Label      string       `mapstructure:"label" validate:"required"`
	ListFile   string       `mapstructure:"list_file" validate:"required"`
	DetailFile string       `mapstructure:"detail_file"`
	Format     string       `mapstructure:"format" validate:"omitempty,oneof=csv excel"`
	Encoding   string       `mapstructure:"encoding" validate:"omitempty,oneof=utf-8 utf-16 utf-16le utf-16be"`
	Fields     FieldAliases `mapstructure:"fields"`
	Join       JoinConfig   `mapstructure:"join"`
}

// FieldAliases lists candidate header names per product attribute in priority order.
type FieldAliases struct {
	Title []string `mapstructure:"title"`
	Price []string `mapstructure:"price"`
	URL   []string `mapstructure:"url"`
	Image []string `mapstructure:"image"`
}

// JoinConfig describes how detail rows attach to listing rows.
type JoinConfig struct {
	KeyAttribute string   `mapstructure:"key_attribute" validate:"omitempty,oneof=url image"`
	Key          []string `mapstructure:"key"`
	Value        []string `mapstructure:"value"`
}

func (s Source) HasDetail() bool {
	return strings.TrimSpace(s.DetailFile) != ""
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# momoshop-watch configuration
data:
  # local directory or http(s) base URL holding the scraper exports
  location: "./data"

fetch:
  retry_max: 3
  timeout: 30s

server:
  port: 8080

journal:
  path: "./momoshop-watch.db"

log:
  level: info

classifier:
  catid_prefix: "類別 "
  fallback: "其他"
  rules:
    - keyword: "手錶"
      category: "手錶"
    - keyword: "投影"
      category: "投影機"
    - keyword: "耳機"
      category: "耳機"

sources:
  - id: momoshop
    label: "momo購物網"
    list_file: "momoshop-2025-12-23.csv"
    detail_file: "momoshop-detail-2025-12-23.csv"
    fields:
      title: ["prdName", "sloganTitle"]
      price: ["price", "price (2)"]
      url: ["goods-img-url href", "goods-img-url href (3)", "goods-img-url href (4)", "goods-img-url href (5)", "goods-img-url href (6)"]
      image: ["goods-img src", "goods-img src (2)", "goods-img src (3)"]
    join:
      key_attribute: url
      key: ["goods-img-url href (6)", "goods-img-url href"]
      value: ["prdnoteArea"]
  - id: shopee
    label: "Shopee"
    list_file: "shopee-2025-12-23.csv"
    fields:
      title: ["line-clamp-2"]
      price: ["truncate"]
      url: ["contents href"]
      image: ["w-full src", "inset-y-0 src"]
`
}

// DefaultSources returns the built-in momoshop and Shopee source definitions.
func DefaultSources() []Source {
	return []Source{
		{
			ID:         "momoshop",
			Label:      "momo購物網",
			ListFile:   "momoshop-2025-12-23.csv",
			DetailFile: "momoshop-detail-2025-12-23.csv",
			Fields: FieldAliases{
				Title: []string{"prdName", "sloganTitle"},
				Price: []string{"price", "price (2)"},
				URL: []string{
					"goods-img-url href",
					"goods-img-url href (3)",
					"goods-img-url href (4)",
					"goods-img-url href (5)",
					"goods-img-url href (6)",
				},
				Image: []string{"goods-img src", "goods-img src (2)", "goods-img src (3)"},
			},
			Join: JoinConfig{
				KeyAttribute: "url",
				Key:          []string{"goods-img-url href (6)", "goods-img-url href"},
				Value:        []string{"prdnoteArea"},
			},
		},
		{
			ID:       "shopee",
			Label:    "Shopee",
			ListFile: "shopee-2025-12-23.csv",
			Fields: FieldAliases{
				Title: []string{"line-clamp-2"},
				Price: []string{"truncate"},
				URL:   []string{"contents href"},
				Image: []string{"w-full src", "inset-y-0 src"},
			},
		},
	}
}

// DefaultClassifierRules returns the built-in title keyword rules in match order.
func DefaultClassifierRules() []ClassifierRule {
	return []ClassifierRule{
		{Keyword: "手錶", Category: "手錶"},
		{Keyword: "投影", Category: "投影機"},
		{Keyword: "耳機", Category: "耳機"},
	}
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if cfg.Fetch.Timeout < 0 {
		return nil, fmt.Errorf("validation failed: fetch.timeout must not be negative")
	}
	if err := validateSources(cfg.Sources); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDataLocation, "./data")
	v.SetDefault(KeyFetchRetryMax, 3)
	v.SetDefault(KeyFetchTimeout, 30*time.Second)
	v.SetDefault(KeyServerPort, 8080)
	v.SetDefault(KeyJournalPath, "./momoshop-watch.db")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyClassifierCatIDPrefix, "類別 ")
	v.SetDefault(KeyClassifierFallback, "其他")
	v.SetDefault(KeyClassifierRules, DefaultClassifierRules())
	v.SetDefault(KeySources, DefaultSources())
}

func validateSources(sources []Source) error {
	seen := make(map[string]struct{}, len(sources))
	for i, source := range sources {
		id := strings.TrimSpace(source.ID)
		if _, exists := seen[id]; exists {
			return fmt.Errorf("validation failed: duplicate source id %q", id)
		}
		seen[id] = struct{}{}

		if id == "all" {
			return fmt.Errorf("validation failed: sources[%d].id %q is reserved", i, id)
		}
		if len(source.Fields.Title) == 0 && len(source.Fields.URL) == 0 {
			return fmt.Errorf("validation failed: sources[%d] requires at least one title or url alias", i)
		}

		hasJoin := source.Join.KeyAttribute != "" || len(source.Join.Key) > 0 || len(source.Join.Value) > 0
		switch {
		case source.HasDetail() && !hasJoin:
			return fmt.Errorf("validation failed: sources[%d].detail_file requires join configuration", i)
		case !source.HasDetail() && hasJoin:
			return fmt.Errorf("validation failed: sources[%d].join requires detail_file", i)
		case source.HasDetail() && (source.Join.KeyAttribute == "" || len(source.Join.Key) == 0 || len(source.Join.Value) == 0):
			return fmt.Errorf("validation failed: sources[%d].join requires key_attribute, key and value", i)
		}
	}
	return nil
}
