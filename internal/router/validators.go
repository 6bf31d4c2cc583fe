package router

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/utils"
)

// registerValidators adds the domain binding tags used by the request DTOs.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("method", func(fl validator.FieldLevel) bool {
		return models.Method(fl.Field().String()).Valid()
	})
	v.RegisterValidation("scalekind", func(fl validator.FieldLevel) bool {
		return models.Scale(fl.Field().String()).Valid()
	})
	v.RegisterValidation("samplecode", func(fl validator.FieldLevel) bool {
		return utils.IsValidSampleCode(fl.Field().String())
	})
}
