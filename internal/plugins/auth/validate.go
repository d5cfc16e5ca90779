package auth

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/keyxmakerx/storefront/internal/apperror"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// normalizeEmail trims and lowercases an email so lookups and the unique
// key agree on one spelling.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkEmail rejects an address that is not syntactically valid. The
// input must already be normalized.
func checkEmail(email string) error {
	if err := getValidator().Var(email, "required,email,max=255"); err != nil {
		return apperror.NewInvalidEmail("Please enter a valid email address")
	}
	return nil
}

// checkPassword enforces the minimum password length.
func checkPassword(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return apperror.NewWeakPassword("Password should be at least 6 characters")
	}
	return nil
}

// Column widths of users.name and users.phone.
const (
	maxNameLength  = 100
	maxPhoneLength = 32
)

// checkName rejects a display name wider than its column.
func checkName(name string) error {
	if err := getValidator().Var(name, fmt.Sprintf("max=%d", maxNameLength)); err != nil {
		return apperror.NewFieldTooLong("Name should be at most 100 characters")
	}
	return nil
}

// checkPhone rejects a phone number wider than its column.
func checkPhone(phone string) error {
	if err := getValidator().Var(phone, fmt.Sprintf("max=%d", maxPhoneLength)); err != nil {
		return apperror.NewFieldTooLong("Phone should be at most 32 characters")
	}
	return nil
}
