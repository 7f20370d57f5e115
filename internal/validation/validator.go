// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

// Package validation validates report request parameters with
// go-playground/validator v10.
//
// Features:
//   - Singleton validator instance (thread-safe, caches struct info)
//   - reportdate: YYYY-MM-DD or RFC3339
//   - notbefore: a date field must not precede another date field
//   - Messages use the query parameter name, not the Go field name
//
// Example usage:
//
//	type StoreRankingRequest struct {
//	    Start string `query:"start" validate:"required,reportdate"`
//	    End   string `query:"end" validate:"required,reportdate,notbefore=Start"`
//	    Limit int    `query:"limit" validate:"min=1,max=100"`
//	}
//
//	req := StoreRankingRequest{Limit: 10}
//	if err := validation.Bind(r.URL.Query(), &req); err != nil {
//	    respondError(w, r, http.StatusBadRequest, err.Message(), err)
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError describes one rejected field.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the query parameter name that failed validation.
func (e *ValidationError) Field() string {
	return e.field
}

// Tag returns the validation tag that failed.
func (e *ValidationError) Tag() string {
	return e.tag
}

// Param returns the parameter for the validation tag (e.g., "100" for "max=100").
func (e *ValidationError) Param() string {
	return e.param
}

// Value returns the rejected value.
func (e *ValidationError) Value() interface{} {
	return e.value
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	return e.message
}

// RequestValidationError collects every rejected field of one request.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the slice of validation errors.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

// Error implements the error interface.
func (ve *RequestValidationError) Error() string {
	return ve.Message()
}

// Message returns the client-facing text for the 400 response.
func (ve *RequestValidationError) Message() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	if ve.missingDateRange() {
		return "start and end are required"
	}

	messages := make([]string, 0, len(ve.errors))
	for _, err := range ve.errors {
		messages = append(messages, err.message)
	}
	return strings.Join(messages, "; ")
}

// missingDateRange reports whether both bounds of the period were omitted,
// the most common client mistake.
func (ve *RequestValidationError) missingDateRange() bool {
	var start, end bool
	for _, err := range ve.errors {
		if err.tag != "required" {
			continue
		}
		switch err.field {
		case "start":
			start = true
		case "end":
			end = true
		}
	}
	return start && end
}

// Has reports whether field failed validation.
func (ve *RequestValidationError) Has(field string) bool {
	for _, err := range ve.errors {
		if err.field == field {
			return true
		}
	}
	return false
}

func (ve *RequestValidationError) add(err ValidationError) {
	ve.errors = append(ve.errors, err)
}

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if name := queryNames(fld); len(name) > 0 {
				return name[0]
			}
			return fld.Name
		})

		// Registration only fails on programmer error (empty tag or nil func).
		_ = validate.RegisterValidation("reportdate", validateReportDate)
		_ = validate.RegisterValidation("notbefore", validateNotBefore)
	})

	return validate
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{
			errors: []ValidationError{{
				field:   "unknown",
				tag:     "unknown",
				message: err.Error(),
			}},
		}
	}

	fieldErrors := make([]ValidationError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = ValidationError{
			field:   fieldErr.Field(),
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			value:   fieldErr.Value(),
			message: translateError(fieldErr),
		}
	}

	return &RequestValidationError{errors: fieldErrors}
}

// Date layouts accepted for start/end style parameters.
var reportDateLayouts = []string{time.DateOnly, time.RFC3339, time.RFC3339Nano}

// ParseReportDate parses a YYYY-MM-DD or RFC3339 value.
func ParseReportDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range reportDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", s)
}

func validateReportDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := ParseReportDate(s)
	return err == nil
}

// validateNotBefore checks field >= the sibling named by the tag param.
// Unparseable or missing values pass here; reportdate/required report them.
func validateNotBefore(fl validator.FieldLevel) bool {
	end, err := ParseReportDate(fl.Field().String())
	if err != nil {
		return true
	}

	parent := reflect.Indirect(fl.Parent())
	if parent.Kind() != reflect.Struct {
		return true
	}
	other := reflect.Indirect(parent.FieldByName(fl.Param()))
	if !other.IsValid() || other.Kind() != reflect.String {
		return true
	}
	start, err := ParseReportDate(other.String())
	if err != nil {
		return true
	}
	return !end.Before(start)
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required":   "%s is required",
	"reportdate": "%s must be a date in YYYY-MM-DD or RFC3339 format",
}

// errorMessageWithParam maps validation tags to templates that include param.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}
	if tag == "notbefore" {
		return fmt.Sprintf("%s must not be before %s", field, snakeCase(param))
	}
	if tag == "required_with" {
		return fmt.Sprintf("%s is required when %s is set", field, snakeCase(param))
	}

	return translateMinMax(fe, field, tag, param)
}

func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind() == reflect.String

	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

// snakeCase turns a Go field name used as a tag param (PrevStart) into the
// query parameter spelling (prev_start).
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
