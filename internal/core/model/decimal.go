package model

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ExtractDecimal converts a loosely typed JSON value into an exact amount.
// Returns decimal.Zero for nil, empty strings, non-numeric strings and
// unrecognized types. JSON numbers decode to float64 in Go; NewFromFloat
// converts them to their shortest exact decimal representation.
func ExtractDecimal(v interface{}) decimal.Decimal {
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return val
	case float64:
		return decimal.NewFromFloat(val)
	case float32:
		return decimal.NewFromFloat32(val)
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case int32:
		return decimal.NewFromInt(int64(val))
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err == nil {
			return d
		}
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err == nil {
			return d
		}
	}
	return decimal.Zero
}

// ExtractInt is ExtractDecimal truncated to an integer count. Negative
// values clamp to zero because counts are never negative.
func ExtractInt(v interface{}) int64 {
	n := ExtractDecimal(v).IntPart()
	if n < 0 {
		return 0
	}
	return n
}
