package models

import (
	"errors"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// decimal.Decimal is an opaque struct to the validator; expose it as a
	// float so numeric tags like gt=0 work on amounts.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// checkStruct runs the tag-based validator and converts the first failure
// into a *ValidationError.
func checkStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: fe.Field(), Message: "failed rule " + fe.Tag()}
	}
	return err
}

// CreateEntryInput carries the caller-supplied fields for a new entry.
// Status is optional and defaults to Completed, matching the platform's
// observed behavior when the screen omits it.
type CreateEntryInput struct {
	Title     string          `validate:"required,min=1,max=120"`
	Category  string          `validate:"required"`
	Direction Direction       `validate:"required"`
	Amount    decimal.Decimal `validate:"gt=0"`
	Status    Status
	Date      time.Time
	Notes     string
}

// Validate rejects malformed input before any mutation is attempted.
func (in CreateEntryInput) Validate() error {
	if err := checkStruct(in); err != nil {
		return err
	}
	if !in.Direction.Valid() {
		return &ValidationError{Field: "direction", Message: "unknown direction " + string(in.Direction)}
	}
	if in.Status != "" && !in.Status.Valid() {
		return &ValidationError{Field: "status", Message: "unknown status " + string(in.Status)}
	}
	return nil
}

// UpdateEntryInput carries the new values for an entry update. Amount,
// Direction and Status are always supplied in full; the engine computes one
// net delta across all three. Free-text fields are pointers: nil keeps the
// stored value.
type UpdateEntryInput struct {
	Title     *string         `validate:"omitempty,min=1,max=120"`
	Category  *string         `validate:"omitempty,min=1"`
	Direction Direction       `validate:"required"`
	Amount    decimal.Decimal `validate:"gt=0"`
	Status    Status          `validate:"required"`
	Date      *time.Time
	Notes     *string
}

// Validate rejects malformed input before any mutation is attempted.
func (in UpdateEntryInput) Validate() error {
	if err := checkStruct(in); err != nil {
		return err
	}
	if !in.Direction.Valid() {
		return &ValidationError{Field: "direction", Message: "unknown direction " + string(in.Direction)}
	}
	if !in.Status.Valid() {
		return &ValidationError{Field: "status", Message: "unknown status " + string(in.Status)}
	}
	return nil
}
