package auth

import (
	"fmt"

	"courier/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegisterRequest struct {
	Username string `validate:"required,min=1,max=32"`
	Password string `validate:"required,min=4,max=72"`
}

// ValidateRegister checks registration input before any cryptographic
// work happens.
func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrBadRequest, err)
	}
	return nil
}
