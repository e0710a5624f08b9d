package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// requiredColumns must be present in every CSV header.
var requiredColumns = []string{"name", "lat", "lng"}

// columnAliases lets common spellings stand in for the canonical names.
var columnAliases = map[string]string{
	"market":    "name",
	"metro":     "name",
	"latitude":  "lat",
	"longitude": "lng",
	"lon":       "lng",
	"long":      "lng",
	"pop":       "population",
}

// ParseCSV reads markets from CSV with a header row. Columns are matched
// case-insensitively; name, lat and lng are required, rank, population and
// state are optional and may be blank.
func ParseCSV(r io.Reader) ([]Market, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	// Create case-insensitive column mapping
	columnMap := make(map[string]int)
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}
		if _, dup := columnMap[name]; !dup {
			columnMap[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := columnMap[col]; !ok {
			return nil, fmt.Errorf("%w: %q not found in CSV. Available columns: %v", ErrMissingColumn, col, header)
		}
	}

	var markets []Market
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		m, err := parseCSVRow(record, columnMap)
		if err != nil {
			return nil, fmt.Errorf("error parsing CSV line %d: %w", line, err)
		}
		markets = append(markets, m)
	}

	return finish(markets)
}

// parseCSVRow converts one record using the header mapping.
func parseCSVRow(record []string, columnMap map[string]int) (Market, error) {
	field := func(name string) string {
		i, ok := columnMap[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var m Market
	var err error
	m.Name = field("name")
	m.State = field("state")
	if m.Lat, err = strconv.ParseFloat(field("lat"), 64); err != nil {
		return Market{}, fmt.Errorf("unable to parse lat %q: %w", field("lat"), err)
	}
	if m.Lng, err = strconv.ParseFloat(field("lng"), 64); err != nil {
		return Market{}, fmt.Errorf("unable to parse lng %q: %w", field("lng"), err)
	}
	if s := field("rank"); s != "" {
		if m.Rank, err = strconv.Atoi(s); err != nil {
			return Market{}, fmt.Errorf("unable to parse rank %q: %w", s, err)
		}
	}
	if s := strings.ReplaceAll(field("population"), ",", ""); s != "" {
		if m.Population, err = strconv.Atoi(s); err != nil {
			return Market{}, fmt.Errorf("unable to parse population %q: %w", s, err)
		}
	}
	return m, nil
}
