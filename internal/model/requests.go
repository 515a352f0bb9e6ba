package model

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// SignupRequest carries account-creation input.
type SignupRequest struct {
	Username string `validate:"required,min=2,max=32"`
	Password string `validate:"required,min=4,max=72"`
	Email    string `validate:"omitempty,email"`
}

// Validate checks field constraints before the request reaches the store.
func (r SignupRequest) Validate() error {
	return validate.Struct(r)
}

// LoginRequest carries authentication input.
type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Validate checks field constraints before the request reaches the store.
func (r LoginRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateProfileRequest carries profile-update input. Empty fields keep
// their stored values.
type UpdateProfileRequest struct {
	Username string `validate:"omitempty,min=2,max=32"`
	Password string `validate:"omitempty,min=4,max=72"`
	Email    string `validate:"omitempty,email"`
}

// Validate checks field constraints before the request reaches the store.
func (r UpdateProfileRequest) Validate() error {
	return validate.Struct(r)
}
