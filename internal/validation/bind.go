// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package validation

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Bind copies query parameters into the exported fields of dst (a pointer to
// a struct) according to their `query` tags, then validates the result.
//
// A tag may list aliases: `query:"prev_start,prevStart"`; the first one
// present wins. Fields keep their pre-set value when the parameter is absent
// or blank, so defaults are assigned before calling Bind. Supported kinds are
// string, bool, signed ints, floats and pointers to those. Embedded structs
// are walked recursively.
//
// Type conversion failures and tag violations are returned together.
func Bind(values url.Values, dst interface{}) *RequestValidationError {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return &RequestValidationError{errors: []ValidationError{{
			field:   "request",
			tag:     "bind",
			message: fmt.Sprintf("cannot bind into %T", dst),
		}}}
	}

	var bindErrs RequestValidationError
	bindStruct(values, rv.Elem(), &bindErrs)

	validateErrs := ValidateStruct(dst)
	if validateErrs != nil {
		for _, err := range validateErrs.errors {
			// A conversion failure already explains this field.
			if !bindErrs.Has(err.field) {
				bindErrs.add(err)
			}
		}
	}

	if len(bindErrs.errors) == 0 {
		return nil
	}
	return &bindErrs
}

func bindStruct(values url.Values, v reflect.Value, errs *RequestValidationError) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)

		if field.Anonymous && fv.Kind() == reflect.Struct {
			bindStruct(values, fv, errs)
			continue
		}
		if !field.IsExported() {
			continue
		}

		names := queryNames(field)
		if len(names) == 0 {
			continue
		}

		raw, ok := lookup(values, names)
		if !ok {
			continue
		}
		if err := setField(fv, raw); err != nil {
			errs.add(ValidationError{
				field:   names[0],
				tag:     "type",
				value:   raw,
				message: fmt.Sprintf("%s %s", names[0], err.Error()),
			})
		}
	}
}

func queryNames(field reflect.StructField) []string {
	tag := field.Tag.Get("query")
	if tag == "" || tag == "-" {
		return nil
	}
	parts := strings.Split(tag, ",")
	names := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

func lookup(values url.Values, names []string) (string, bool) {
	for _, name := range names {
		if raw := strings.TrimSpace(values.Get(name)); raw != "" {
			return raw, true
		}
	}
	return "", false
}

func setField(fv reflect.Value, raw string) error {
	if fv.Kind() == reflect.Pointer {
		elem := reflect.New(fv.Type().Elem())
		if err := setField(elem.Elem(), raw); err != nil {
			return err
		}
		fv.Set(elem)
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("must be an integer")
		}
		fv.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("must be a number")
		}
		fv.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("must be true or false")
		}
		fv.SetBool(b)
	default:
		return fmt.Errorf("has unsupported type %s", fv.Type())
	}
	return nil
}
