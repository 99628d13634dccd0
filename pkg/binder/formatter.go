package binder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/EATMove/handbook/pkg/identifiers"
	"github.com/EATMove/handbook/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/segmentio/encoding/json"
)

const (
	chapterID  = "chapter_id"
	identifier = "identifier"
	imageUsage = "image_usage"
	mx         = "max"
	mn         = "min"
	oneof      = "oneof"
	required   = "required"
)

// formatTags maps the identifier tags to the format description used in
// invalid_format errors.
var formatTags = map[string]string{
	chapterID:  identifiers.ChapterIDFormat,
	identifier: identifiers.IDFormat,
}

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	return fmt.Sprintf("%q should be of type %s", strings.Trim(err.Field, "."), err.Type)
}

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q should be of type %s", err.Key, err.Type)
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()

	if expected, ok := formatTags[err.Tag()]; ok {
		return fmt.Sprintf("%q has an invalid format: expected %s", field, expected)
	}

	switch err.Tag() {
	case imageUsage:
		return oneOfMessage(field, models.ImageUsages)
	case oneof:
		return oneOfMessage(field, strings.Fields(err.Param()))
	case mx:
		return boundMessage(field, "less", err)
	case mn:
		return boundMessage(field, "greater", err)
	case required:
		return fmt.Sprintf("%q is required", field)
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

func oneOfMessage(field string, options []string) string {
	quoted := make([]string, len(options))
	for i, o := range options {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	return fmt.Sprintf("%q must be one of the following: %s", field, strings.Join(quoted, ", "))
}

// boundMessage words min and max failures. Numbers are compared by value;
// strings and slices by length.
func boundMessage(field, direction string, err validator.FieldError) string {
	//exhaustive:ignore
	switch err.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%q must be %s than or equal to %s", field, direction, err.Param())
	}

	unit := "character"
	if err.Kind() == reflect.Slice {
		unit = "element"
	}
	if err.Param() != "1" {
		unit += "s"
	}
	return fmt.Sprintf("%q length must be %s than or equal to %s %s", field, direction, err.Param(), unit)
}
