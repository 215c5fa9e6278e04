package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"classquiz/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance. Field names in errors follow the json tags.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s and translates failures into domain.ValidationErrors.
// It returns nil when s is valid.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewInvalidInputError(err.Error())
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toValidationError(fe))
	}
	return out
}

func toValidationError(fe validator.FieldError) domain.ValidationError {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "min", "gte":
		return domain.NewOutOfRangeError(field, fe.Value(), "at least "+fe.Param())
	case "max", "lte":
		return domain.NewOutOfRangeError(field, fe.Value(), "at most "+fe.Param())
	case "gt":
		return domain.NewOutOfRangeError(field, fe.Value(), "greater than "+fe.Param())
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}

// fieldPath drops the top-level struct name: "CreateQuizRequest.title" -> "title".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// ParseID parses a positive integer identifier such as a path parameter.
func ParseID(field, raw string) (int64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError(field, raw)}
	}
	if id <= 0 {
		return 0, domain.ValidationErrors{domain.NewOutOfRangeError(field, id, fmt.Sprintf("greater than %d", 0))}
	}
	return id, nil
}

// Items validates every element of a request array. Field names are prefixed
// with the element index, e.g. "[1].question_text".
func Items[T any](v *Validator, items []T) error {
	var out domain.ValidationErrors
	for i := range items {
		err := v.Struct(&items[i])
		if err == nil {
			continue
		}
		ve, ok := err.(domain.ValidationErrors)
		if !ok {
			return err
		}
		for _, e := range ve {
			e.Message = fmt.Sprintf("[%d].%s", i, e.Message)
			e.Field = fmt.Sprintf("[%d].%s", i, e.Field)
			out = append(out, e)
		}
	}
	if len(out) > 0 {
		return out
	}
	return nil
}
