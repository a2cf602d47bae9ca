// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form decodes submitted HTML forms into typed structs and validates
// them against the rules declared in their `validate` struct tags.
//
// Field names come from the `form` tag. Values are whitespace-trimmed unless
// the tag carries the "raw" option, e.g. `form:"password,raw"`.
package form

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormErrorKey holds errors that do not belong to a single field.
const FormErrorKey = "_form"

// Errors maps form field names to a human-readable message.
type Errors map[string]string

// Get returns the message for field, or "".
func (e Errors) Get(field string) string {
	if e == nil {
		return ""
	}
	return e[field]
}

// Add records a message for field unless one is already present.
func (e Errors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

// Valid reports whether there are no errors.
func (e Errors) Valid() bool {
	return len(e) == 0
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _ := parseTag(fld.Tag.Get("form"))
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

func parseTag(tag string) (name string, raw bool) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts == "raw"
}

// Decode parses the request body and copies each `form`-tagged string field
// of dst (a pointer to struct) from the posted values.
func Decode(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parsing form: %w", err)
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return errors.New("form: Decode needs a pointer to a struct")
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name, raw := parseTag(field.Tag.Get("form"))
		if name == "" || name == "-" || field.Type.Kind() != reflect.String {
			continue
		}
		value := r.PostForm.Get(name)
		if !raw {
			value = strings.TrimSpace(value)
		}
		rv.Field(i).SetString(value)
	}
	return nil
}

// Validate checks src against its `validate` tags and returns per-field
// messages. The result is empty when src is valid.
func Validate(src any) Errors {
	errs := Errors{}

	err := validate.Struct(src)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add(FormErrorKey, "The form could not be checked.")
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url", "http_url":
		return "Enter a valid URL."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}
