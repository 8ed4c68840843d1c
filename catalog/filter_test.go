package catalog

import (
	"reflect"
	"testing"

	"github.com/xa0627-sys/momoshop-watch/product"
)

func filterFixture() []product.Record {
	return []product.Record{
		{Source: "momoshop", Title: "Smart Watch 手錶", Spec: "防水", Price: "2,990", Category: "手錶"},
		{Source: "shopee", Title: "藍牙耳機", Spec: "", Price: "NT$1,299", Category: "耳機"},
		{Source: "momoshop", Title: "投影機", Spec: "4K HDR", Price: "15,900", Category: "投影機"},
		{Source: "shopee", Title: "運動手錶", Spec: "GPS", Price: "3,500", Category: "手錶"},
	}
}

func titlesOf(records []product.Record) []string {
	titles := make([]string, 0, len(records))
	for _, item := range records {
		titles = append(titles, item.Title)
	}
	return titles
}

func TestFilter_AllSelectorReturnsEverythingInOrder(t *testing.T) {
	t.Parallel()

	records := filterFixture()
	got := Filter(records, AllSelector())
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("expected unchanged sequence, got %v", titlesOf(got))
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		selector Selector
		want     []string
	}{
		{name: "category", selector: Selector{Category: "手錶", Source: All}, want: []string{"Smart Watch 手錶", "運動手錶"}},
		{name: "category must match exactly", selector: Selector{Category: "手錶 ", Source: All}, want: []string{}},
		{name: "source", selector: Selector{Category: All, Source: "shopee"}, want: []string{"藍牙耳機", "運動手錶"}},
		{name: "category and source", selector: Selector{Category: "手錶", Source: "momoshop"}, want: []string{"Smart Watch 手錶"}},
		{name: "keyword matches price", selector: Selector{Category: All, Source: All, Keyword: "99"}, want: []string{"Smart Watch 手錶", "藍牙耳機"}},
		{name: "keyword case insensitive", selector: Selector{Category: All, Source: All, Keyword: "watch"}, want: []string{"Smart Watch 手錶"}},
		{name: "keyword matches spec", selector: Selector{Category: All, Source: All, Keyword: "hdr"}, want: []string{"投影機"}},
		{name: "keyword spans joined fields", selector: Selector{Category: All, Source: All, Keyword: "gps 3,5"}, want: []string{"運動手錶"}},
		{name: "all three criteria", selector: Selector{Category: "手錶", Source: "shopee", Keyword: "GPS"}, want: []string{"運動手錶"}},
		{name: "no match", selector: Selector{Category: All, Source: All, Keyword: "冰箱"}, want: []string{}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := titlesOf(Filter(filterFixture(), tc.selector))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Filter(%+v) = %v, want %v", tc.selector, got, tc.want)
			}
		})
	}
}

func TestFilter_KeywordExcludesRecordWithoutMatch(t *testing.T) {
	t.Parallel()

	records := []product.Record{
		{Title: "耳機", Price: "NT$1,299"},
		{Title: "手錶", Spec: "黑", Price: "NT$1,000"},
	}
	got := Filter(records, Selector{Category: All, Source: All, Keyword: "99"})
	if len(got) != 1 || got[0].Title != "耳機" {
		t.Fatalf("unexpected result: %v", titlesOf(got))
	}
}

func TestFilter_CategoryAndSourceAreCaseSensitive(t *testing.T) {
	t.Parallel()

	records := []product.Record{
		{Source: "shopee", Title: "smart watch", Category: "Watch"},
		{Source: "Shopee", Title: "sport watch", Category: "watch"},
	}

	tests := []struct {
		name     string
		selector Selector
		want     []string
	}{
		{name: "lowercase category", selector: Selector{Category: "watch", Source: All}, want: []string{"sport watch"}},
		{name: "capitalized category", selector: Selector{Category: "Watch", Source: All}, want: []string{"smart watch"}},
		{name: "uppercase category", selector: Selector{Category: "WATCH", Source: All}, want: []string{}},
		{name: "lowercase source", selector: Selector{Category: All, Source: "shopee"}, want: []string{"smart watch"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := titlesOf(Filter(records, tc.selector))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Filter(%+v) = %v, want %v", tc.selector, got, tc.want)
			}
		})
	}
}

func TestNewSelector(t *testing.T) {
	t.Parallel()

	if got := NewSelector("", " ", "  耳機 "); got != (Selector{Category: All, Source: All, Keyword: "耳機"}) {
		t.Fatalf("unexpected selector: %+v", got)
	}
	if got := NewSelector("手錶", "shopee", ""); got != (Selector{Category: "手錶", Source: "shopee"}) {
		t.Fatalf("unexpected selector: %+v", got)
	}
}
