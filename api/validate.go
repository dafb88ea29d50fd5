package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/portfolio-content-backend/errs"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct checks the validate tags of s and reports the first failure as a
// field error.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errs.NewBadRequestError(err.Error())
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return errs.NewMissingRequiredFieldError(fe.Field())
	case "email":
		return errs.NewInvalidFieldError(fe.Field(), "must be a valid email address")
	case "max":
		return errs.NewInvalidFieldError(fe.Field(), fmt.Sprintf("must have at most %s entries", fe.Param()))
	case "min":
		return errs.NewInvalidFieldError(fe.Field(), fmt.Sprintf("must be at least %s characters", fe.Param()))
	}
	return errs.NewInvalidFieldError(fe.Field(), fmt.Sprintf("failed %s validation", fe.Tag()))
}
