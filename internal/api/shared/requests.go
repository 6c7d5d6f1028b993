package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/calshare/internal/domain"
)

// MaxBodyBytes bounds request bodies, iCalendar uploads included.
const MaxBodyBytes = 1 << 20

// Global validator instance for reuse
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
// Unknown fields are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	// Check if the object implements the Validate interface
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	// Otherwise, use the struct validator
	return validate.Struct(v)
}

// ValidationFailure converts a validator error into a *domain.ValidationError
// naming the first failing field.
func ValidationFailure(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError("", "invalid request", nil)
	}
	fe := verrs[0]
	return domain.NewValidationError(jsonFieldName(fe), tagMessage(fe), nil)
}

// jsonFieldName maps the struct field back to the snake_case name clients send.
func jsonFieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "StartTime", "Start":
		return "start"
	case "EndTime", "End":
		return "end"
	case "IsPublic":
		return "is_public"
	case "TimeZone":
		return "time_zone"
	default:
		return toSnake(fe.Field())
	}
}

func toSnake(s string) string {
	out := make([]rune, 0, len(s)+4)
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				out = append(out, '_')
			}
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "datetime":
		return "must use the format " + domain.TimeLayout
	case "excludesall":
		return "cannot contain whitespace"
	default:
		return "is invalid"
	}
}

// PathParam returns the unescaped chi URL parameter name.
// A missing or malformed parameter is a validation error.
//
// chi matches against r.URL.RawPath when it is set and r.URL.Path otherwise,
// so the parameter is still escaped only in the first case.
func PathParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return "", domain.NewValidationError(name, "is required", nil)
	}
	if r.URL.RawPath == "" {
		return raw, nil
	}
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", domain.NewValidationError(name, "is not a valid path segment", nil)
	}
	return value, nil
}
