package api

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"gigmarket/internal/domain/entity"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("servicetype", func(fl validator.FieldLevel) bool {
		return entity.ServiceType(fl.Field().String()).Valid()
	})
	v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return entity.ValidCategory(fl.Field().String())
	})
	v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		f, ok := entity.Price(fl.Field().String()).Float()
		return ok && f >= 0
	})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
