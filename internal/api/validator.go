package api

import (
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vytor/visualdex/internal/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func GetValidator() *validator.Validate {
	return validate
}

type validatable interface {
	Validate() error
}

// validationError turns the first failed rule into a VALIDATION_ERROR.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.NewBadRequestError(err.Error())
	}
	fe := fieldErrs[0]

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "min":
		reason = "must have at least " + fe.Param() + " items"
		if fe.Kind() == reflect.String {
			reason = "must be at least " + fe.Param() + " characters"
		}
	case "max":
		reason = "must have at most " + fe.Param() + " items"
		if fe.Kind() == reflect.String {
			reason = "must be at most " + fe.Param() + " characters"
		}
	case "oneof":
		reason = "must be one of " + fe.Param()
	default:
		reason = "failed " + fe.Tag()
	}
	return errors.NewValidationError(fieldPath(fe), reason)
}

// fieldPath drops the struct name from the namespace ("CaptureRequest.mode" -> "mode").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
