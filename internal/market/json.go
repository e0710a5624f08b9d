package market

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// ErrSchema indicates a JSON document that does not match the market schema.
var ErrSchema = errors.New("market: document does not conform to schema")

//go:embed schema/markets.schema.json
var schemaBytes []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaBytes)

// ParseJSON reads a JSON array of markets. The document is checked against
// the embedded schema before decoding so that every violation is reported at
// once rather than the first decode error.
func ParseJSON(r io.Reader) ([]Market, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading JSON: %w", err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("schema validate error: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
	}

	var markets []Market
	if err := json.Unmarshal(data, &markets); err != nil {
		return nil, fmt.Errorf("error decoding JSON: %w", err)
	}
	return finish(markets)
}
