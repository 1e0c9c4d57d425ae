package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"carbook/pkg/logger"
	"carbook/pkg/model"
)

type AuthValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAuthValidator(log *logger.Logger) *AuthValidator {
	return &AuthValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// ValidateCredentials checks a register/login payload: email must be
// well-formed and the password non-empty.
func (v *AuthValidator) ValidateCredentials(creds model.Credentials) error {
	if err := v.validate.Struct(creds); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
	}
	return nil
}

func translate(errs validator.ValidationErrors) error {
	for _, err := range errs {
		switch err.Tag() {
		case "required":
			return fmt.Errorf("%s is required", err.Field())
		case "email":
			return fmt.Errorf("%s must be a valid email address", err.Field())
		}
		return fmt.Errorf("%s is invalid", err.Field())
	}
	return nil
}
