package validator

import (
	"regexp"
	"slices"
	"strings"
)

var EmailRX = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+\\/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$")

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator collects field errors in the order checks were made. Only the
// first error per field is kept.
type Validator struct {
	Errors []FieldError
}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(field, message string) {
	for _, e := range v.Errors {
		if e.Field == field {
			return
		}
	}
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Err returns nil when no check failed, otherwise an *Error.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return &Error{Fields: slices.Clone(v.Errors)}
}

// Error is returned by validation functions. Its message joins every field
// message with ", ".
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, ", ")
}

// Single builds an *Error with one field error.
func Single(field, message string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Message: message}}}
}

func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}
