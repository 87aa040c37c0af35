package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vbonduro/appcatalog/internal/store"
)

// ErrNotFound matches any "no such row" failure from the service, including
// ErrAppNotFound and wrapped repository errors.
var ErrNotFound = store.ErrNotFound

// ErrAppNotFound is returned when an operation references an app id that
// does not exist.
var ErrAppNotFound = fmt.Errorf("app %w", store.ErrNotFound)

// ValidationError carries per-field messages for a rejected form submission.
// Callers re-render the form with Fields; nothing has been persisted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// fieldErrors accumulates validation messages; the first message per field wins.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
