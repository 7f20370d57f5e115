// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package cache

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const (
	// KeySeparator joins the report id and its parameter values.
	KeySeparator = "|"

	// SentinelAll stands in for an absent filter (every channel, every weekday, ...).
	SentinelAll = "all"

	// SentinelNone stands in for an absent value that is not a filter,
	// such as an unset hour window. Callers pass it explicitly.
	SentinelNone = "none"
)

// BuildKey derives the cache key for one report invocation.
//
// parts must be supplied in the order the report declares them. Nil values and
// nil pointers become SentinelAll, so an omitted filter never collides with an
// empty string. Times are rendered in UTC: date-only values as 2006-01-02,
// anything else as RFC3339.
func BuildKey(report string, parts ...any) string {
	var b strings.Builder
	b.Grow(len(report) + 16*len(parts))
	b.WriteString(report)
	for _, part := range parts {
		b.WriteString(KeySeparator)
		b.WriteString(keyPart(part))
	}
	return b.String()
}

func keyPart(v any) string {
	switch val := v.(type) {
	case nil:
		return SentinelAll
	case string:
		if val == "" {
			return SentinelAll
		}
		return val
	case time.Time:
		return formatKeyTime(val)
	case *time.Time:
		if val == nil {
			return SentinelAll
		}
		return formatKeyTime(*val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		if isNilPointer(v) {
			return SentinelAll
		}
		return val.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return SentinelAll
		}
		return keyPart(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

func formatKeyTime(t time.Time) string {
	t = t.UTC()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339Nano)
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
