package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("search_criterion", validateSearchCriterion)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validateSearchCriterion accepts raw FHIR search filters of the form key=value.
// Both sides must be non-empty; the value may itself contain '='.
func validateSearchCriterion(fl validator.FieldLevel) bool {
	criterion := fl.Field().String()
	key, value, found := strings.Cut(criterion, "=")
	return found && key != "" && value != ""
}
