package geo

import (
	"fmt"
	"strings"
)

// stateBounds holds the geographic extent of each state (and DC), keyed by
// two-letter postal abbreviation.
var stateBounds = map[string]GeoBounds{
	"AL": {MinLat: 30.22, MaxLat: 35.01, MinLng: -88.47, MaxLng: -84.89},
	"AK": {MinLat: 51.21, MaxLat: 71.39, MinLng: -179.15, MaxLng: -129.98},
	"AZ": {MinLat: 31.33, MaxLat: 37.00, MinLng: -114.81, MaxLng: -109.04},
	"AR": {MinLat: 33.00, MaxLat: 36.50, MinLng: -94.62, MaxLng: -89.64},
	"CA": {MinLat: 32.53, MaxLat: 42.01, MinLng: -124.48, MaxLng: -114.13},
	"CO": {MinLat: 36.99, MaxLat: 41.00, MinLng: -109.06, MaxLng: -102.04},
	"CT": {MinLat: 40.95, MaxLat: 42.05, MinLng: -73.73, MaxLng: -71.79},
	"DE": {MinLat: 38.45, MaxLat: 39.84, MinLng: -75.79, MaxLng: -75.05},
	"FL": {MinLat: 24.40, MaxLat: 31.00, MinLng: -87.63, MaxLng: -80.03},
	"GA": {MinLat: 30.36, MaxLat: 35.00, MinLng: -85.61, MaxLng: -80.84},
	"HI": {MinLat: 18.91, MaxLat: 22.24, MinLng: -160.25, MaxLng: -154.81},
	"ID": {MinLat: 41.99, MaxLat: 49.00, MinLng: -117.24, MaxLng: -111.04},
	"IL": {MinLat: 36.97, MaxLat: 42.51, MinLng: -91.51, MaxLng: -87.02},
	"IN": {MinLat: 37.77, MaxLat: 41.76, MinLng: -88.10, MaxLng: -84.78},
	"IA": {MinLat: 40.38, MaxLat: 43.50, MinLng: -96.64, MaxLng: -90.14},
	"KS": {MinLat: 36.99, MaxLat: 40.00, MinLng: -102.05, MaxLng: -94.59},
	"KY": {MinLat: 36.50, MaxLat: 39.15, MinLng: -89.57, MaxLng: -81.96},
	"LA": {MinLat: 28.93, MaxLat: 33.02, MinLng: -94.04, MaxLng: -88.82},
	"ME": {MinLat: 43.06, MaxLat: 47.46, MinLng: -71.08, MaxLng: -66.95},
	"MD": {MinLat: 37.91, MaxLat: 39.72, MinLng: -79.49, MaxLng: -75.05},
	"MA": {MinLat: 41.24, MaxLat: 42.89, MinLng: -73.51, MaxLng: -69.93},
	"MI": {MinLat: 41.70, MaxLat: 48.31, MinLng: -90.42, MaxLng: -82.12},
	"MN": {MinLat: 43.50, MaxLat: 49.38, MinLng: -97.24, MaxLng: -89.49},
	"MS": {MinLat: 30.17, MaxLat: 35.00, MinLng: -91.66, MaxLng: -88.10},
	"MO": {MinLat: 35.99, MaxLat: 40.61, MinLng: -95.77, MaxLng: -89.10},
	"MT": {MinLat: 44.36, MaxLat: 49.00, MinLng: -116.05, MaxLng: -104.04},
	"NE": {MinLat: 40.00, MaxLat: 43.00, MinLng: -104.05, MaxLng: -95.31},
	"NV": {MinLat: 35.00, MaxLat: 42.00, MinLng: -120.01, MaxLng: -114.04},
	"NH": {MinLat: 42.70, MaxLat: 45.31, MinLng: -72.56, MaxLng: -70.70},
	"NJ": {MinLat: 38.93, MaxLat: 41.36, MinLng: -75.56, MaxLng: -73.89},
	"NM": {MinLat: 31.33, MaxLat: 37.00, MinLng: -109.05, MaxLng: -103.00},
	"NY": {MinLat: 40.50, MaxLat: 45.02, MinLng: -79.76, MaxLng: -71.86},
	"NC": {MinLat: 33.84, MaxLat: 36.59, MinLng: -84.32, MaxLng: -75.46},
	"ND": {MinLat: 45.94, MaxLat: 49.00, MinLng: -104.05, MaxLng: -96.55},
	"OH": {MinLat: 38.40, MaxLat: 42.33, MinLng: -84.82, MaxLng: -80.52},
	"OK": {MinLat: 33.62, MaxLat: 37.00, MinLng: -103.00, MaxLng: -94.43},
	"OR": {MinLat: 41.99, MaxLat: 46.29, MinLng: -124.57, MaxLng: -116.46},
	"PA": {MinLat: 39.72, MaxLat: 42.27, MinLng: -80.52, MaxLng: -74.69},
	"RI": {MinLat: 41.15, MaxLat: 42.02, MinLng: -71.86, MaxLng: -71.12},
	"SC": {MinLat: 32.03, MaxLat: 35.22, MinLng: -83.35, MaxLng: -78.54},
	"SD": {MinLat: 42.48, MaxLat: 45.95, MinLng: -104.06, MaxLng: -96.44},
	"TN": {MinLat: 34.98, MaxLat: 36.68, MinLng: -90.31, MaxLng: -81.65},
	"TX": {MinLat: 25.84, MaxLat: 36.50, MinLng: -106.65, MaxLng: -93.51},
	"UT": {MinLat: 36.99, MaxLat: 42.00, MinLng: -114.05, MaxLng: -109.04},
	"VT": {MinLat: 42.73, MaxLat: 45.02, MinLng: -73.44, MaxLng: -71.46},
	"VA": {MinLat: 36.54, MaxLat: 39.47, MinLng: -83.68, MaxLng: -75.24},
	"WA": {MinLat: 45.54, MaxLat: 49.00, MinLng: -124.85, MaxLng: -116.92},
	"WV": {MinLat: 37.20, MaxLat: 40.64, MinLng: -82.64, MaxLng: -77.72},
	"WI": {MinLat: 42.49, MaxLat: 47.31, MinLng: -92.89, MaxLng: -86.25},
	"WY": {MinLat: 40.99, MaxLat: 45.01, MinLng: -111.06, MaxLng: -104.05},
	"DC": {MinLat: 38.79, MaxLat: 38.99, MinLng: -77.12, MaxLng: -76.91},
}

// slugToAbbrev maps the URL slugs of state pages to postal abbreviations.
var slugToAbbrev = map[string]string{
	"california": "CA", "texas": "TX", "florida": "FL", "new-york": "NY",
	"arizona": "AZ", "colorado": "CO", "georgia": "GA", "nevada": "NV",
	"north-carolina": "NC", "tennessee": "TN", "washington": "WA",
	"south-carolina": "SC", "idaho": "ID", "utah": "UT", "oregon": "OR",
	"alabama": "AL", "kentucky": "KY", "louisiana": "LA", "ohio": "OH",
	"indiana": "IN", "michigan": "MI", "missouri": "MO", "maryland": "MD",
	"virginia": "VA", "pennsylvania": "PA", "new-jersey": "NJ",
	"massachusetts": "MA", "illinois": "IL", "minnesota": "MN",
	"wisconsin": "WI", "iowa": "IA", "kansas": "KS", "nebraska": "NE",
	"oklahoma": "OK", "arkansas": "AR", "mississippi": "MS",
	"new-mexico": "NM", "montana": "MT", "wyoming": "WY",
	"north-dakota": "ND", "south-dakota": "SD", "west-virginia": "WV",
	"connecticut": "CT", "new-hampshire": "NH", "maine": "ME",
	"vermont": "VT", "rhode-island": "RI", "delaware": "DE",
	"district-of-columbia": "DC", "hawaii": "HI", "alaska": "AK",
}

// Abbrev normalizes a state abbreviation or page slug ("TX", "tx",
// "texas", "new-mexico") to its postal abbreviation.
func Abbrev(state string) (string, bool) {
	s := strings.TrimSpace(state)
	if up := strings.ToUpper(s); len(up) == 2 {
		_, ok := stateBounds[up]
		return up, ok
	}
	slug := strings.ReplaceAll(strings.ToLower(s), " ", "-")
	abbr, ok := slugToAbbrev[slug]
	return abbr, ok
}

// LookupState returns the geographic extent of a state given its
// abbreviation or slug.
func LookupState(state string) (GeoBounds, error) {
	abbr, ok := Abbrev(state)
	if !ok {
		return GeoBounds{}, fmt.Errorf("%w: %q", ErrUnknownState, state)
	}
	return stateBounds[abbr], nil
}
