package utils

import (
	"errors"
	"reflect"
	"strings"

	"funnelapi/errs"
	"funnelapi/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON name so messages match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("steptype", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseStepType(fl.Field().String())
		return ok
	})

	return v
}

func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	return &errs.ValidationError{Err: formatValidationErrors(err)}
}

// ValidateVar checks a single value, such as a path parameter, against a tag.
func ValidateVar(field string, value interface{}, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(field, fe))
		}
		return &errs.ValidationError{Err: errors.New(strings.Join(msgs, ", "))}
	}
	return &errs.ValidationError{Err: err}
}

func formatValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var messages []string
	for _, fe := range verrs {
		messages = append(messages, describe(fe.Field(), fe))
	}
	return errors.New(strings.Join(messages, ", "))
}

func describe(field string, fe validator.FieldError) string {
	param := fe.Param()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + param + unit
	case "max":
		return field + " must be at most " + param + unit
	case "uuid":
		return field + " must be a valid UUID"
	case "steptype":
		types := make([]string, len(models.StepTypes))
		for i, t := range models.StepTypes {
			types[i] = string(t)
		}
		return field + " must be one of " + strings.Join(types, ", ")
	default:
		return field + " is invalid"
	}
}
