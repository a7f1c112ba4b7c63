package synapse

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one validation failure on one field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Schema is the opaque validation capability attached to a parameter
// descriptor. Coerce shapes the raw extracted value and reports every
// failure it finds; a non-empty error list means the value is rejected.
type Schema interface {
	Coerce(raw any) (any, []FieldError)
}

// SchemaFunc adapts a plain function to the Schema interface
type SchemaFunc func(raw any) (any, []FieldError)

// Coerce implements Schema
func (f SchemaFunc) Coerce(raw any) (any, []FieldError) {
	return f(raw)
}

// validate is the shared validator instance backing Struct and Rules schemas
var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct returns a schema that coerces the raw value (typically a decoded
// JSON body) into T and validates it against T's `validate` struct tags.
//
//	type CreateUserRequest struct {
//	    Name  string `json:"name" validate:"required,min=2"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//
//	blueprint.Post("/users", "CreateUser").Body(0, synapse.Struct[CreateUserRequest]())
func Struct[T any]() Schema {
	return structSchema[T]{}
}

type structSchema[T any] struct{}

func (structSchema[T]) Coerce(raw any) (any, []FieldError) {
	var target T

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, []FieldError{{Field: "body", Message: "unable to encode request body"}}
	}
	if err := json.Unmarshal(data, &target); err != nil {
		return nil, []FieldError{{Field: "body", Message: err.Error()}}
	}

	if ferrs := collectFieldErrors(validate.Struct(&target)); len(ferrs) > 0 {
		return nil, ferrs
	}
	return target, nil
}

// Rules returns a schema validating a scalar value against a validator tag
// expression such as "required,min=1,max=100". The value itself passes
// through unmodified.
func Rules(tag string) Schema {
	return SchemaFunc(func(raw any) (any, []FieldError) {
		if ferrs := collectFieldErrors(validate.Var(raw, tag)); len(ferrs) > 0 {
			return nil, ferrs
		}
		return raw, nil
	})
}

// ForType returns a scalar schema backed by the built-in parser for the
// given type name ("int", "float64", "uuid", ...), if one exists.
func ForType(typeName string) (Schema, bool) {
	parse, ok := GetBuiltinParser(typeName)
	if !ok {
		return nil, false
	}
	resolved := ResolveTypeAlias(typeName)

	return SchemaFunc(func(raw any) (any, []FieldError) {
		if raw == nil {
			return nil, []FieldError{{Message: "value is required"}}
		}
		s, ok := raw.(string)
		if !ok {
			s = fmt.Sprint(raw)
		}
		v, err := parse(s)
		if err != nil {
			return nil, []FieldError{{Message: fmt.Sprintf("must be a valid %s", resolved)}}
		}
		return v, nil
	}), true
}

// Int returns a schema coercing the raw value to an int
func Int() Schema {
	s, _ := ForType("int")
	return s
}

// Float64 returns a schema coercing the raw value to a float64
func Float64() Schema {
	s, _ := ForType("float64")
	return s
}

// UUID returns a schema coercing the raw value to a uuid.UUID
func UUID() Schema {
	s, _ := ForType("uuid.UUID")
	return s
}

// collectFieldErrors flattens a validator result into field errors
func collectFieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return out
}

// validationMessage renders a readable message for a failed rule
func validationMessage(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("must satisfy %s", fe.Tag())
}
