// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package analytics

import (
	"math"
	"math/big"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// float64er is satisfied by driver numeric types that expose a lossy float
// conversion, such as the DuckDB DECIMAL value.
type float64er interface {
	Float64() float64
}

// Normalize converts a raw database value into a finite float64.
//
// Postgres returns NUMERIC aggregates as text and drivers surface their own
// decimal types; every one of them maps to a plain number here. nil, text
// that is not a number, NaN, infinities and unknown types all map to 0.
// Normalize never rounds.
func Normalize(v any) float64 {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// NormalizeNullable is Normalize for fields where null is meaningful.
// nil stays nil; any other value is normalized.
func NormalizeNullable(v any) *float64 {
	if v == nil {
		return nil
	}
	switch p := v.(type) {
	case *decimal.Decimal:
		if p == nil {
			return nil
		}
	case decimal.NullDecimal:
		if !p.Valid {
			return nil
		}
	}
	f := Normalize(v)
	return &f
}

// NormalizeInt is Normalize truncated toward zero, for counts.
func NormalizeInt(v any) int64 {
	return int64(Normalize(v))
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case string:
		return parseDecimal(val)
	case []byte:
		return parseDecimal(string(val))
	case json.Number:
		return parseDecimal(val.String())
	case decimal.Decimal:
		return val.InexactFloat64(), true
	case *decimal.Decimal:
		if val == nil {
			return 0, false
		}
		return val.InexactFloat64(), true
	case decimal.NullDecimal:
		if !val.Valid {
			return 0, false
		}
		return val.Decimal.InexactFloat64(), true
	case *big.Int:
		if val == nil {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(val).Float64()
		return f, true
	case *big.Rat:
		if val == nil {
			return 0, false
		}
		f, _ := val.Float64()
		return f, true
	case *big.Float:
		if val == nil {
			return 0, false
		}
		f, _ := val.Float64()
		return f, true
	case float64er:
		return val.Float64(), true
	}
	return 0, false
}

func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// Round rounds v half away from zero to the given number of decimal places.
// Non-finite input yields 0.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// RoundNullable rounds a nullable metric, keeping nil.
func RoundNullable(v *float64, places int32) *float64 {
	if v == nil {
		return nil
	}
	r := Round(*v, places)
	return &r
}
