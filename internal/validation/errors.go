package validation

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalidPayload is matched by every Errors value.
var ErrInvalidPayload = errors.New("invalid payload")

// Errors maps a payload field name to the reasons it was rejected.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Empty() bool { return len(e) == 0 }

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], " "))
	}
	return "invalid payload: " + strings.Join(parts, "; ")
}

func (e Errors) Unwrap() error { return ErrInvalidPayload }
