// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package logging

import "strings"

const maxLoggedErrorLen = 200

// SanitizeError strips connection secrets from driver error text and
// truncates it for logging. Postgres errors can echo the DSN.
func SanitizeError(err string) string {
	lower := strings.ToLower(err)
	for _, pattern := range []string{"password", "secret", "sslkey", "postgres://", "postgresql://"} {
		if strings.Contains(lower, pattern) {
			return "database error (details redacted)"
		}
	}
	return truncateString(err, maxLoggedErrorLen)
}

// SanitizeQueryValue limits the size of a user-supplied query parameter
// before it is echoed into a log line.
func SanitizeQueryValue(v string) string {
	v = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, v)
	return truncateString(v, 64)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
