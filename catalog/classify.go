package catalog

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/xa0627-sys/momoshop-watch/config"
	"github.com/xa0627-sys/momoshop-watch/product"
)

const (
	DefaultCatIDPrefix = "類別 "
	DefaultFallback    = "其他"
)

// Rule assigns Category to any title containing Keyword.
type Rule struct {
	Keyword  string
	Category string
}

// Classifier derives a category label from a product URL or title.
type Classifier struct {
	CatIDPrefix string
	Fallback    string
	Rules       []Rule
}

func DefaultClassifier() Classifier {
	return NewClassifier(config.ClassifierConfig{
		CatIDPrefix: DefaultCatIDPrefix,
		Fallback:    DefaultFallback,
		Rules:       config.DefaultClassifierRules(),
	})
}

func NewClassifier(cfg config.ClassifierConfig) Classifier {
	rules := make([]Rule, 0, len(cfg.Rules))
	for _, rule := range cfg.Rules {
		rules = append(rules, Rule{Keyword: rule.Keyword, Category: rule.Category})
	}
	fallback := cfg.Fallback
	if fallback == "" {
		fallback = DefaultFallback
	}
	return Classifier{CatIDPrefix: cfg.CatIDPrefix, Fallback: fallback, Rules: rules}
}

// Classify picks the category in order: the URL's kw query parameter, then
// its catid parameter, then the first title keyword rule, then the fallback.
// kw is unescaped twice; if the second pass fails the URL is ignored.
func (c Classifier) Classify(item product.Record) string {
	if productURL, ok := parseProductURL(item.URL); ok {
		if category, ok := c.classifyQuery(productURL.RawQuery); ok {
			return category
		}
	}

	for _, rule := range c.Rules {
		if rule.Keyword != "" && strings.Contains(item.Title, rule.Keyword) {
			return rule.Category
		}
	}
	return c.Fallback
}

func (c Classifier) classifyQuery(rawQuery string) (string, bool) {
	kw, err := url.PathUnescape(queryValue(rawQuery, "kw"))
	if err != nil || !utf8.ValidString(kw) {
		return "", false
	}
	if kw != "" {
		return kw, true
	}
	if catID := queryValue(rawQuery, "catid"); catID != "" {
		return c.CatIDPrefix + catID, true
	}
	return "", false
}

// queryValue returns the first value for name in rawQuery. Pairs are split on
// '&' only, so ';' stays part of a value. Malformed escapes are kept as is.
func queryValue(rawQuery, name string) string {
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if unescapeQueryComponent(key) == name {
			return unescapeQueryComponent(value)
		}
	}
	return ""
}

func unescapeQueryComponent(s string) string {
	unescaped, err := url.QueryUnescape(s)
	if err != nil {
		return strings.ReplaceAll(s, "+", " ")
	}
	return unescaped
}

// parseProductURL accepts only absolute URLs; anything else counts as no URL.
func parseProductURL(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, false
	}
	return parsed, true
}
