// Package validation validates configuration and request structs through
// struct tags, using go-playground/validator.
//
//	type Config struct {
//	    Port int `validate:"min=1,max=65535"`
//	}
//	err := validation.ValidateStruct(cfg)
//
// Failures are returned as *errors.AppError with one entry per field in
// Details["fields"].
package validation
