package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var boxCodeRe = regexp.MustCompile(`^[^\s/]+$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("box_code", validateBoxCode)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Box codes are free-form but must be a single token: no whitespace or
// slashes, so they survive URLs and QR labels.
func validateBoxCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) == 0 || len(code) > 100 {
		return false
	}
	return boxCodeRe.MatchString(code)
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "box_code":
		return "Box code must be a single token of at most 100 characters"
	default:
		return e.Field() + " is invalid"
	}
}
