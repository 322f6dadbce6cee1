package handlers

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ezla-online/portal/internal/usecase"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs request tags on the gin validator and makes
// error namespaces use JSON field names.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unsupported binding validator")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		if registerErr = v.RegisterValidation("pesel", validatePESEL); registerErr != nil {
			return
		}
		registerErr = v.RegisterValidation("postal_code", validatePostalCode)
	})
	return registerErr
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func validatePESEL(fl validator.FieldLevel) bool {
	return usecase.ValidatePESEL(strings.TrimSpace(fl.Field().String()), time.Time{})
}

func validatePostalCode(fl validator.FieldLevel) bool {
	return usecase.ValidPostalCode(strings.TrimSpace(fl.Field().String()))
}
