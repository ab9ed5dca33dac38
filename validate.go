package bindit

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// User-facing validation messages. These are display copy, not wrapped
// errors, so they keep sentence casing.
const (
	msgRequired = "This field is required"
	msgEmail    = "Please enter a valid email address"
	msgURL      = "Please enter a valid URL"
)

// checker is the shared format checker backing Email and URL.
var checker = validator.New()

// Required rejects only absent values: nil and the empty string. Zero
// numbers and false booleans are present values and pass.
func Required(v any) error {
	if v == nil {
		return errors.New(msgRequired)
	}
	if s, ok := v.(string); ok && s == "" {
		return errors.New(msgRequired)
	}
	return nil
}

// Email accepts values whose string form is a well-formed email address.
func Email(v any) error {
	s, _ := v.(string)
	if checker.Var(s, "email") != nil {
		return errors.New(msgEmail)
	}
	return nil
}

// URL accepts values whose string form is a well-formed absolute URL.
func URL(v any) error {
	s, _ := v.(string)
	if checker.Var(s, "url") != nil {
		return errors.New(msgURL)
	}
	return nil
}

// MinLength requires at least n characters, counted in runes. Non-string
// values are measured through their string form.
func MinLength(n int) Validator {
	return func(v any) error {
		if utf8.RuneCountInString(cast.ToString(v)) < n {
			return fmt.Errorf("Must be at least %d characters", n)
		}
		return nil
	}
}

// MaxLength requires at most n characters, counted in runes.
func MaxLength(n int) Validator {
	return func(v any) error {
		if utf8.RuneCountInString(cast.ToString(v)) > n {
			return fmt.Errorf("Must be at most %d characters", n)
		}
		return nil
	}
}

// Range requires a numeric value within [min, max], inclusive on both
// ends. Non-numeric values coerce to zero before the check.
func Range(min, max float64) Validator {
	return func(v any) error {
		f := toNumber(v)
		if f < min || f > max {
			return fmt.Errorf("Must be between %v and %v", min, max)
		}
		return nil
	}
}

// All combines validators, running them in order and returning the first
// failure.
func All(validators ...Validator) Validator {
	return func(v any) error {
		for _, check := range validators {
			if err := check(v); err != nil {
				return err
			}
		}
		return nil
	}
}
