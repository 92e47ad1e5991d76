package login

import (
	"errors"
	"unicode"
)

// ValidatePasswordPolicy gates register and password changes. Login never
// calls it so legacy accounts keep working.
func ValidatePasswordPolicy(password string) error {
	if len(password) < 10 {
		return errors.New("password must be at least 10 characters")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must include letters and digits")
	}
	return nil
}
