// Package catalog loads the list of tickers offered in the symbol picker.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// utf8BOM is how a UTF-8 byte order mark reads once decoded as latin-1.
const utf8BOM = "\u00ef\u00bb\u00bf"

// Option is one selectable ticker.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Catalog is the ordered ticker list, loaded once at start-up.
type Catalog struct {
	Options []Option
}

// Load reads a latin-1 encoded CSV file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a latin-1 encoded CSV with Ticker and Name header columns.
// Other columns are ignored and rows missing either value are skipped.
func Parse(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	tickerCol, nameCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, utf8BOM)) {
		case "Ticker":
			tickerCol = i
		case "Name":
			nameCol = i
		}
	}
	if tickerCol < 0 || nameCol < 0 {
		return nil, errors.New("catalog header must contain Ticker and Name")
	}

	c := &Catalog{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		if tickerCol >= len(rec) || nameCol >= len(rec) {
			continue
		}
		ticker := strings.TrimSpace(rec[tickerCol])
		name := strings.TrimSpace(rec[nameCol])
		if ticker == "" || name == "" {
			continue
		}
		c.Options = append(c.Options, Option{Label: name + " - " + ticker, Value: ticker})
	}
	return c, nil
}
