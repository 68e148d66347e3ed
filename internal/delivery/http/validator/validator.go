// Package validator adapts go-playground/validator to Echo's Validator
// interface so handlers can call c.Validate on bound request structs.
package validator

import (
	domainerrors "blitzshop/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
)

// CustomValidator wraps a single validator instance; it is safe for
// concurrent use and caches struct metadata internally.
type CustomValidator struct {
	validate *playground.Validate
}

// New creates the validator used by the Echo server.
func New() *CustomValidator {
	return &CustomValidator{
		validate: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator. Violations surface as the standard
// validation error so the error handler renders them consistently.
func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
