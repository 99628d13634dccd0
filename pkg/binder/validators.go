package binder

import (
	"github.com/EATMove/handbook/pkg/identifiers"
	"github.com/EATMove/handbook/pkg/models"
	"github.com/go-playground/validator/v10"
)

// chapterIDValidator accepts either the structured or the legacy chapter ID
// form. Use it with omitempty for optional fields.
func chapterIDValidator(fl validator.FieldLevel) bool {
	return identifiers.ValidateChapterID(fl.Field().String()) == nil
}

func identifierValidator(fl validator.FieldLevel) bool {
	return identifiers.IsValidID(fl.Field().String())
}

func imageUsageValidator(fl validator.FieldLevel) bool {
	return models.IsValidImageUsage(fl.Field().String())
}
