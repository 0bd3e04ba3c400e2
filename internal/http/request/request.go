// Package request decodes JSON request bodies into typed structs and turns
// decoding problems into field errors.
package request

import (
	"bytes"
	"contacts/internal/validator"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxBodyBytes = 1 << 20

// encoding/json reports DisallowUnknownFields violations only as a plain
// error with this prefix followed by the quoted key.
const unknownFieldPrefix = "json: unknown field "

type Options struct {
	// EmptyMessage is returned when the body is missing or has no keys.
	// Empty bodies are accepted when it is blank.
	EmptyMessage string
	// AllowUnknown keeps keys that dst has no field for from failing the
	// request.
	AllowUnknown bool
}

// Decode reads the JSON object in r's body into dst.
func Decode(w http.ResponseWriter, r *http.Request, dst any, opts Options) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return validator.Single("body", fmt.Sprintf("Request body must not be larger than %d bytes", maxErr.Limit))
		}
		return err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		if opts.EmptyMessage == "" {
			return nil
		}
		return validator.Single("body", opts.EmptyMessage)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return validator.Single("body", "Request body must be a JSON object")
	}
	if len(keys) == 0 && opts.EmptyMessage != "" {
		return validator.Single("body", opts.EmptyMessage)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if !opts.AllowUnknown {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}

	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &typeErr):
		return validator.Single(typeErr.Field, fmt.Sprintf("%q must be %s", typeErr.Field, kindName(typeErr.Type.Kind().String())))
	case strings.HasPrefix(err.Error(), unknownFieldPrefix):
		field := strings.Trim(strings.TrimPrefix(err.Error(), unknownFieldPrefix), `"`)
		return validator.Single(field, fmt.Sprintf("%q is not allowed", field))
	default:
		return validator.Single("body", "Request body contains badly-formed JSON")
	}
}

func kindName(kind string) string {
	switch kind {
	case "bool":
		return "a boolean"
	case "string":
		return "a string"
	case "int", "int64", "float64":
		return "a number"
	case "ptr":
		return "a valid value"
	default:
		return "a " + kind
	}
}
