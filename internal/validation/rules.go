package validation

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

func (vs *Violations) Required(field string, present bool) bool {
	if !present {
		vs.Add(field, "required", fmt.Sprintf("The %s field is required.", label(field)))
	}
	return present
}

func (vs *Violations) String(field string, ok bool) bool {
	if !ok {
		vs.Add(field, "string", fmt.Sprintf("The %s field must be a string.", label(field)))
	}
	return ok
}

// MaxLen and MinLen count runes, as the validator's max/min tags do for
// strings.
func (vs *Violations) MaxLen(field, s string, max int) bool {
	if err := engine().Var(s, fmt.Sprintf("max=%d", max)); err != nil {
		vs.Add(field, "max", fmt.Sprintf("The %s field must not be greater than %d characters.", label(field), max))
		return false
	}
	return true
}

func (vs *Violations) MinLen(field, s string, min int) bool {
	if err := engine().Var(s, fmt.Sprintf("min=%d", min)); err != nil {
		vs.Add(field, "min", fmt.Sprintf("The %s field must be at least %d characters.", label(field), min))
		return false
	}
	return true
}

func (vs *Violations) Email(field, s string) bool {
	if err := engine().Var(s, "email"); err != nil {
		vs.Add(field, "email", fmt.Sprintf("The %s field must be a valid email address.", label(field)))
		return false
	}
	return true
}

func (vs *Violations) Integer(field string, ok bool) bool {
	if !ok {
		vs.Add(field, "integer", fmt.Sprintf("The %s field must be an integer.", label(field)))
	}
	return ok
}

func (vs *Violations) Numeric(field string, ok bool) bool {
	if !ok {
		vs.Add(field, "numeric", fmt.Sprintf("The %s field must be a number.", label(field)))
	}
	return ok
}

// MinValue fails for NaN as well as for values below min.
func (vs *Violations) MinValue(field string, v, min float64) bool {
	if err := engine().Var(v, fmt.Sprintf("gte=%g", min)); err != nil {
		vs.Add(field, "min", fmt.Sprintf("The %s field must be at least %g.", label(field), min))
		return false
	}
	return true
}

func (vs *Violations) Unique(field string, taken bool) bool {
	if taken {
		vs.Add(field, "unique", fmt.Sprintf("The %s has already been taken.", label(field)))
		return false
	}
	return true
}
