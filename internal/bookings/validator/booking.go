package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"carbook/pkg/logger"
	"carbook/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// ValidateAndParse checks the create-booking payload and returns the
// parsed time window. All fields are required; datetimes must be in
// "YYYY-MM-DD HH:MM:SS" form and the window must be non-empty.
func (v *BookingValidator) ValidateAndParse(req *model.BookingRequest) (start, end time.Time, err error) {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return time.Time{}, time.Time{}, v.translateValidationErrors(validationErrs)
		}
		return time.Time{}, time.Time{}, err
	}

	start, parseErr := time.Parse(model.DateTimeLayout, req.StartDatetime)
	if parseErr != nil {
		return time.Time{}, time.Time{}, ValidationErrors{
			ValidationError{
				Field:   "StartDatetime",
				Message: fmt.Sprintf("start_datetime must be in %q format", model.DateTimeLayout),
			},
		}
	}

	end, parseErr = time.Parse(model.DateTimeLayout, req.EndDatetime)
	if parseErr != nil {
		return time.Time{}, time.Time{}, ValidationErrors{
			ValidationError{
				Field:   "EndDatetime",
				Message: fmt.Sprintf("end_datetime must be in %q format", model.DateTimeLayout),
			},
		}
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, ValidationErrors{
			ValidationError{
				Field:   "EndDatetime",
				Message: "end_datetime must be after start_datetime",
			},
		}
	}

	return start, end, nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
