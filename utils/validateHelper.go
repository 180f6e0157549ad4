package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks `validate` tags on an input struct and folds any
// failure into ErrInvalidArgument so callers can branch on the kind.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}
