package dto

import (
	"regexp"
	"strings"
	"unicode"
)

const passwordSymbols = "@$!%*?&#"

var (
	emailPattern       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	passwordCharsetPat = regexp.MustCompile(`^[A-Za-z\d@$!%*?&#]{8,}$`)
)

// IsValidEmail reports whether s looks like name@domain.tld.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsStrongPassword requires at least 8 characters drawn only from ASCII
// letters, digits and @$!%*?&#, with at least one of each class.
func IsStrongPassword(s string) bool {
	if !passwordCharsetPat.MatchString(s) {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
