package config

import (
	"net/url"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators registers custom validation functions
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("base_url", validateBaseURL)
}

// validateBaseURL accepts absolute http(s) URLs with a host.
func validateBaseURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
