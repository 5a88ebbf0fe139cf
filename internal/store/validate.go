package store

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type enum interface {
	Valid() bool
}

// NewValidator returns a validator that understands the `enum` tag used on
// RoomType, View, RoomStatus and FloorBand fields, and reports fields by
// their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(enum)
		return ok && e.Valid()
	})
	return v
}
