package importer

import "fmt"

// CSVReader reads comma-separated scraper exports with ParseDelimited.
type CSVReader struct {
	Encoding string
}

func (r *CSVReader) Read(content []byte) ([]Record, error) {
	text, err := DecodeText(content, r.Encoding)
	if err != nil {
		return nil, fmt.Errorf("decode csv content: %w", err)
	}
	return ToRecords(ParseDelimited(text)), nil
}
