package session

import (
	"unicode"

	"github.com/cfcastillo/go-franchise-client/franchises"
)

// ValidatePasswordStrength checks a new password before any request is sent:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return franchises.NewValidationError("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		}
		if unicode.IsLower(char) {
			hasLower = true
		}
		if unicode.IsNumber(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return franchises.NewValidationError("password must contain an uppercase letter")
	}
	if !hasLower {
		return franchises.NewValidationError("password must contain a lowercase letter")
	}
	if !hasNumber {
		return franchises.NewValidationError("password must contain a number")
	}
	return nil
}
