package validation

import (
	"errors"
	"fmt"
	"strings"
)

var ErrValidation = errors.New("validation failed")

type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type Violations []Violation

func (vs *Violations) Add(field, rule, message string) {
	*vs = append(*vs, Violation{Field: field, Rule: rule, Message: message})
}

func (vs Violations) Has(field string) bool {
	for _, v := range vs {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Err returns nil when nothing was violated.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	return &Error{Violations: vs}
}

type Error struct {
	Violations Violations
}

// Error renders the first violation followed by a count of the rest, e.g.
// "The name field is required. (and 2 more errors)".
func (e *Error) Error() string {
	if len(e.Violations) == 0 {
		return ErrValidation.Error()
	}
	msg := e.Violations[0].Message
	switch rest := len(e.Violations) - 1; {
	case rest == 1:
		msg += " (and 1 more error)"
	case rest > 1:
		msg += fmt.Sprintf(" (and %d more errors)", rest)
	}
	return msg
}

func (e *Error) Unwrap() error { return ErrValidation }

// Fields groups messages by field name.
func (e *Error) Fields() map[string][]string {
	out := make(map[string][]string, len(e.Violations))
	for _, v := range e.Violations {
		out[v.Field] = append(out[v.Field], v.Message)
	}
	return out
}

func label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
