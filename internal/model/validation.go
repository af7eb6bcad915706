package model

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validation limits taken from the backend's registration rules
const (
	MinNameLength        = 3
	MaxNameLength        = 30
	MinPhoneDigits       = 10
	MaxPhoneDigits       = 15
	MinAddressLength     = 10
	MaxAddressLength     = 250
	MinPasswordLength    = 8
	MaxPasswordLength    = 30
	PasswordSpecialChars = "@$!%*?&"
)

var (
	alphaSpaceRegex = regexp.MustCompile(`^[A-Za-z\s]+$`)
	phoneRegex      = regexp.MustCompile(`^\d+$`)
)

// commonPasswords are rejected on reset regardless of policy
var commonPasswords = map[string]struct{}{
	"123456":   {},
	"password": {},
	"qwerty":   {},
	"12345678": {},
	"111111":   {},
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// structValidator returns the shared validator with the custom rules registered
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()

		// Report fields by their wire name
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return ""
			}
			return name
		})

		mustRegister(v, "alphaspace", func(fl validator.FieldLevel) bool {
			return alphaSpaceRegex.MatchString(fl.Field().String())
		})
		mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
			digits := strings.TrimPrefix(fl.Field().String(), "+")
			return phoneRegex.MatchString(digits) && len(digits) >= MinPhoneDigits && len(digits) <= MaxPhoneDigits
		})
		mustRegister(v, "address", func(fl validator.FieldLevel) bool {
			n := len([]rune(strings.TrimSpace(fl.Field().String())))
			return n >= MinAddressLength && n <= MaxAddressLength
		})
		mustRegister(v, "password", func(fl validator.FieldLevel) bool {
			return PasswordPolicyError(fl.Field().String(), MaxPasswordLength) == ""
		})

		validate = v
	})
	return validate
}

// mustRegister panics when a custom tag cannot be registered
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// validateStruct runs struct tag validation and converts failures to FieldErrors
func validateStruct(s interface{}) []FieldError {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: messageForTag(fe),
		})
	}
	return out
}

func messageForTag(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return "invalid email format"
	case "alphaspace":
		return fmt.Sprintf("%s must contain only letters and spaces", field)
	case "phone":
		return fmt.Sprintf("phone number must be %d to %d digits", MinPhoneDigits, MaxPhoneDigits)
	case "address":
		return fmt.Sprintf("address must be %d to %d characters", MinAddressLength, MaxAddressLength)
	case "password":
		if msg := PasswordPolicyError(fe.Value().(string), MaxPasswordLength); msg != "" {
			return msg
		}
		return "password does not meet the policy"
	case "eqfield":
		return "passwords do not match"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// PasswordPolicyError returns a message describing why pw fails the password
// policy, or "" if it passes. maxLen <= 0 disables the upper bound.
func PasswordPolicyError(pw string, maxLen int) string {
	if len(pw) < MinPasswordLength {
		return fmt.Sprintf("password must be at least %d characters", MinPasswordLength)
	}
	if maxLen > 0 && len(pw) > maxLen {
		return fmt.Sprintf("password must be at most %d characters", maxLen)
	}

	var lower, upper, digit, special bool
	for _, r := range pw {
		switch {
		case r > unicode.MaxASCII:
			return "password contains unsupported characters"
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			special = true
		default:
			return fmt.Sprintf("password may only contain letters, digits and %s", PasswordSpecialChars)
		}
	}

	if !lower || !upper || !digit || !special {
		return fmt.Sprintf("password must include an uppercase letter, a lowercase letter, a number and one of %s", PasswordSpecialChars)
	}
	return ""
}

// IsCommonPassword reports whether pw is on the blocklist
func IsCommonPassword(pw string) bool {
	_, ok := commonPasswords[strings.ToLower(pw)]
	return ok
}
