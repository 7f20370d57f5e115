// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package database

import (
	"fmt"
	"io"

	"github.com/tomtom215/salesboard/internal/logging"
)

// closeWithLog closes a resource and logs any error.
// Use this where a close failure should be seen but must not fail the call.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource in error paths where Close errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// queryError wraps a driver error so callers can match ErrQueryFailed while
// errors.Unwrap still reaches the driver error.
func queryError(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrQueryFailed, operation, err)
}
