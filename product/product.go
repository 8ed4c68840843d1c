package product

// Record is the normalized product record merged from every scraping source.
type Record struct {
	Source      string `json:"source"`
	SourceLabel string `json:"sourceLabel"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	Spec        string `json:"spec"`
	Category    string `json:"category"`
}

// Source identifies one configured data source.
type Source struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Retained reports whether the record carries enough identity to be kept.
// Rows without both a title and a URL are parser noise such as blank trailing lines.
func (r Record) Retained() bool {
	return r.Title != "" || r.URL != ""
}
