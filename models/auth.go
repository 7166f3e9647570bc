package models

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/leebenson/conform"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^\d{10}$`)

	validate = newValidator()
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Name     string `json:"name" conform:"trim" validate:"required"`
	Email    string `json:"email" conform:"trim" validate:"required,email_address"`
	Mobile   string `json:"mobile" conform:"num" validate:"required,mobile"`
	Password string `json:"password" validate:"required,strong_password"`
	OTP      string `json:"otp" conform:"trim"`
}

type OTPRequest struct {
	Mobile string `json:"mobile" conform:"num" validate:"required,mobile"`
}

type PasswordStrengthRequest struct {
	Password string `json:"password"`
}

var fieldMessages = map[string]map[string]string{
	"username": {"required": "Username is required"},
	"name":     {"required": "Name is required"},
	"email": {
		"required":      "Email is required",
		"email_address": "Please enter a valid email address",
	},
	"mobile": {
		"required": "Mobile number is required",
		"mobile":   "Please enter a valid 10-digit mobile number",
	},
	"password": {
		"required":        "Password is required",
		"strong_password": "Password does not meet requirements",
	},
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("email_address", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return CheckPassword(fl.Field().String()).Satisfied()
	})
	return v
}

// ValidateStruct trims the request according to its conform tags and returns
// every failing field with its message. A nil map means the request is valid.
func ValidateStruct(req interface{}) map[string]string {
	if err := conform.Strings(req); err != nil {
		return map[string]string{"request": err.Error()}
	}
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		fields[fe.Field()] = msg
	}
	return fields
}

// UsernameFromEmail keys a signup by its whole address, lowercased. Demo
// usernames carry no "@", so a signup can never take one over.
func UsernameFromEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
