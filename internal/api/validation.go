package api

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"roofline/server/internal/models"
)

// RegisterValidations installs custom binding tags on Gin's validator engine.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("userrole", func(fl validator.FieldLevel) bool {
		return models.ValidRole(models.Role(fl.Field().String()))
	})
}
