package middleware

import (
	"classquiz/internal/domain"
	"classquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const paramLocalPrefix = "validated_"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	if v == nil {
		v = validation.NewValidator()
	}
	return &ValidationMiddleware{validator: v}
}

// ValidateIDParams checks that each named path parameter is a positive
// integer and stores the parsed value for ParamID.
func (vm *ValidationMiddleware) ValidateIDParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var errs domain.ValidationErrors
		for _, name := range names {
			id, err := validation.ParseID(name, c.Params(name))
			if err != nil {
				if ve, ok := err.(domain.ValidationErrors); ok {
					errs = append(errs, ve...)
					continue
				}
				return err
			}
			c.Locals(paramLocalPrefix+name, id)
		}
		if len(errs) > 0 {
			return errs // This will be handled by ErrorHandler middleware
		}
		return c.Next()
	}
}

// ValidateOptionalIDQuery checks the named query parameters when present.
func (vm *ValidationMiddleware) ValidateOptionalIDQuery(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			raw := c.Query(name)
			if raw == "" {
				continue
			}
			id, err := validation.ParseID(name, raw)
			if err != nil {
				return err
			}
			c.Locals(paramLocalPrefix+name, id)
		}
		return c.Next()
	}
}

// BindBody parses the JSON body into out and validates it.
func (vm *ValidationMiddleware) BindBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	return vm.validator.Struct(out)
}

// BindArray parses a JSON array body and validates each element. Any other
// JSON value is rejected.
func BindArray[T any](vm *ValidationMiddleware, c *fiber.Ctx) ([]T, error) {
	items := []T{}
	if err := c.BodyParser(&items); err != nil || items == nil {
		return nil, domain.NewInvalidInputError("Request body must be a JSON array")
	}
	if err := validation.Items(vm.validator, items); err != nil {
		return nil, err
	}
	return items, nil
}

// ParamID returns an id validated by ValidateIDParams.
func ParamID(c *fiber.Ctx, name string) int64 {
	id, _ := c.Locals(paramLocalPrefix + name).(int64)
	return id
}

// OptionalQueryID returns an id validated by ValidateOptionalIDQuery, or nil.
func OptionalQueryID(c *fiber.Ctx, name string) *int64 {
	id, ok := c.Locals(paramLocalPrefix + name).(int64)
	if !ok {
		return nil
	}
	return &id
}
