// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validatePostgresURL checks a DATABASE_URL value. Keyword/value DSNs
// ("host=db user=app") are accepted as-is; URL forms must use the
// postgres or postgresql scheme, name a host and name a database.
func validatePostgresURL(rawURL, fieldName string) error {
	if !strings.Contains(rawURL, "://") {
		if !strings.Contains(rawURL, "=") {
			return fmt.Errorf("%s must be a postgres:// URL or a key=value DSN", fieldName)
		}
		return nil
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		// url.Error echoes the input, which may hold a password.
		return fmt.Errorf("%s failed to parse URL", fieldName)
	}

	if parsedURL.Scheme != "postgres" && parsedURL.Scheme != "postgresql" {
		return fmt.Errorf("%s scheme must be postgres or postgresql, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	if strings.Trim(parsedURL.Path, "/") == "" {
		return fmt.Errorf("%s must name a database", fieldName)
	}

	return nil
}
