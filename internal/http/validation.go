package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/seat-planner/internal/application"
	"github.com/example/seat-planner/internal/seatplan"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		_, err := seatplan.ParseDate(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "weekday", func(fl validator.FieldLevel) bool {
		return seatplan.IsWorkday(fl.Field().String())
	})
	mustRegister(v, "feature", func(fl validator.FieldLevel) bool {
		return seatplan.IsFeature(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// validateRequest checks the struct tags of req and converts failures into
// the service's validation error so both surface the same way.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	vErr := &application.ValidationError{FieldErrors: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		vErr.FieldErrors[fe.Field()] = validationMessage(fe.Field(), fe.Tag())
	}
	return vErr
}

func validationMessage(field, tag string) string {
	switch tag {
	case "isodate":
		return "date must use the YYYY-MM-DD format"
	case "weekday":
		return "day must be one of Mo, Di, Mi, Do, Fr"
	case "feature":
		return "unknown seat feature"
	case "required":
		if field == "seatCount" {
			return "seat count is required"
		}
		return field + " is required"
	default:
		return field + " is invalid"
	}
}

// Path parameters are validated through these structs so that they share
// the tag vocabulary with request bodies.

type datePath struct {
	Date string `json:"date" validate:"required,isodate"`
}

type dayPath struct {
	Day string `json:"day" validate:"required,weekday"`
}

type featurePath struct {
	Feature string `json:"feature" validate:"required,feature"`
}
