// Package market loads the lending markets drawn on a state map.
//
// Markets come from CSV (header-driven, case-insensitive columns) or from a
// JSON array checked against an embedded JSON Schema. Every record is then
// validated with struct tags, and the list is ordered by rank.
package market

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrUnsupportedFormat indicates an input file that is neither CSV nor JSON.
	ErrUnsupportedFormat = errors.New("market: unsupported input format")
	// ErrMissingColumn indicates a CSV header without a required column.
	ErrMissingColumn = errors.New("market: required column missing")
	// ErrInvalidMarket indicates a record that fails validation.
	ErrInvalidMarket = errors.New("market: invalid market")
	// ErrDuplicateName indicates two markets sharing a name; names label pins.
	ErrDuplicateName = errors.New("market: duplicate market name")
)

// validate is a singleton validator instance
var validate = validator.New()

// Market is one metro the lender is active in.
type Market struct {
	Name       string  `json:"name" validate:"required,max=80"`
	State      string  `json:"state,omitempty" validate:"omitempty,max=40"`
	Lat        float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng        float64 `json:"lng" validate:"gte=-180,lte=180"`
	Rank       int     `json:"rank,omitempty" validate:"gte=0"`
	Population int     `json:"population,omitempty" validate:"gte=0"`
}

// Validate checks the struct tags and wraps failures in ErrInvalidMarket.
func (m Market) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidMarket, m.Name, err)
	}
	return nil
}

// LoadFile reads markets from path, choosing the parser by extension
// (.csv or .json).
func LoadFile(path string) ([]Market, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening market file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(f)
	case ".json":
		return ParseJSON(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// finish validates every market, rejects duplicate names and sorts by rank.
// Markets without a rank (0) go last; ties break by name.
func finish(markets []Market) ([]Market, error) {
	seen := make(map[string]bool, len(markets))
	for _, m := range markets {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, m.Name)
		}
		seen[m.Name] = true
	}
	sort.SliceStable(markets, func(i, j int) bool {
		ri, rj := markets[i].Rank, markets[j].Rank
		if (ri == 0) != (rj == 0) {
			return rj == 0
		}
		if ri != rj {
			return ri < rj
		}
		return markets[i].Name < markets[j].Name
	})
	return markets, nil
}

// Top returns at most n markets from an already sorted list.
func Top(markets []Market, n int) []Market {
	if n <= 0 || n >= len(markets) {
		return markets
	}
	return markets[:n]
}

// RadiusFor scales a base pin radius by metro population: 1.8x from 2M,
// 1.5x from 1M, 1.2x from 500k. An unknown population counts as 500k.
func RadiusFor(population int, base float64) float64 {
	if population <= 0 {
		population = 500_000
	}
	switch {
	case population >= 2_000_000:
		return base * 1.8
	case population >= 1_000_000:
		return base * 1.5
	case population >= 500_000:
		return base * 1.2
	default:
		return base
	}
}
