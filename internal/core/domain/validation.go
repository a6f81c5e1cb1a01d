package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	NameMinLen     = 20
	NameMaxLen     = 60
	AddressMaxLen  = 400
	PasswordMinLen = 8
	PasswordMaxLen = 16

	// PasswordSymbols is the punctuation set a password must draw from.
	PasswordSymbols = "!@#$%^&*"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateName checks the display name length in characters.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < NameMinLen || n > NameMaxLen {
		return NewValidationError("name", fmt.Sprintf("name must be between %d and %d characters", NameMinLen, NameMaxLen))
	}
	return nil
}

// ValidateAddress requires a non-empty address of at most AddressMaxLen characters.
func ValidateAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return NewValidationError("address", "address is required")
	}
	if utf8.RuneCountInString(address) > AddressMaxLen {
		return NewValidationError("address", fmt.Sprintf("address must be at most %d characters", AddressMaxLen))
	}
	return nil
}

// ValidateEmail checks the local@domain.tld shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return NewValidationError("email", "invalid email format")
	}
	return nil
}

// ValidatePassword enforces length, one uppercase letter and one symbol
// from PasswordSymbols.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	var upper, symbol bool
	for _, r := range password {
		if unicode.IsUpper(r) && r <= unicode.MaxASCII {
			upper = true
		}
		if strings.ContainsRune(PasswordSymbols, r) {
			symbol = true
		}
	}
	if n < PasswordMinLen || n > PasswordMaxLen || !upper || !symbol {
		return NewValidationError("password", fmt.Sprintf(
			"password must be %d-%d characters with an uppercase letter and one of %s",
			PasswordMinLen, PasswordMaxLen, PasswordSymbols))
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
