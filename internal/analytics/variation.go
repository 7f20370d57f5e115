// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package analytics

import "math"

// Variation returns the percentage change from previous to current, rounded
// to places digits. Both sides are normalized first. A zero baseline or a
// non-finite ratio yields 0 rather than an error.
func Variation(current, previous any, places int32) float64 {
	cur := Normalize(current)
	prev := Normalize(previous)
	if prev == 0 {
		return 0
	}
	ratio := (cur - prev) / prev * 100
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0
	}
	return Round(ratio, places)
}

// Percent returns part/whole*100 rounded to places, 0 when whole is 0.
func Percent(part, whole float64, places int32) float64 {
	if whole == 0 {
		return 0
	}
	return Round(part/whole*100, places)
}
