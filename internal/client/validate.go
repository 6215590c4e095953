package client

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError is a form rejected before any request was sent
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// messages keyed by json field and failing tag
var messages = map[string]string{
	"email.required":     "Email is required",
	"email.email":        "Invalid email address",
	"password.required":  "Password is required",
	"password.min":       "Password must be at least 6 characters",
	"fullName.required":  "Full name is required",
	"fullName.min":       "Full name must be at least 3 characters",
	"phoneNumber.min":    "Invalid phone number",
	"role.required":      "Please select a role",
	"role.oneof":         "Please select a role",
	"salaryMax.gtefield": "Maximum salary must not be below the minimum",
	"position.gte":       "At least one position is required",
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	msg, ok := messages[fe.Field()+"."+fe.Tag()]
	if !ok {
		if fe.Tag() == "required" {
			msg = fmt.Sprintf("%s is required", fe.Field())
		} else {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}

// Validate checks the login form
func (r LoginRequest) Validate() error { return check(r) }

// Validate checks the signup form; phone number is optional here
func (r RegisterRequest) Validate() error { return check(r) }

// ValidateFull checks the standalone signup form, where a phone number is required
func (r RegisterRequest) ValidateFull() error {
	if err := check(r); err != nil {
		return err
	}
	if err := validate.Var(r.PhoneNumber, "required,min=10"); err != nil {
		return &ValidationError{Field: "phoneNumber", Message: "Invalid phone number"}
	}
	return nil
}

// Validate checks a job posting
func (in JobInput) Validate() error { return check(in) }
