package utils

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// HashPassword returns a salted bcrypt hash.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PasswordSymbols is the punctuation a strong password may draw on.
const PasswordSymbols = "!@#$%^&*()_+-="

// PasswordRule is one named clause of the strength policy.
type PasswordRule struct {
	Name  string
	Check func(password string) bool
}

var PasswordRules = []PasswordRule{
	{Name: "at least 8 characters", Check: func(p string) bool { return len(p) >= 8 }},
	{Name: "a lowercase letter", Check: func(p string) bool { return containsFunc(p, isASCIILower) }},
	{Name: "an uppercase letter", Check: func(p string) bool { return containsFunc(p, isASCIIUpper) }},
	{Name: "a digit", Check: func(p string) bool { return containsFunc(p, isASCIIDigit) }},
	{Name: "a symbol from " + PasswordSymbols, Check: func(p string) bool { return strings.ContainsAny(p, PasswordSymbols) }},
	{Name: "only letters, digits and " + PasswordSymbols, Check: func(p string) bool {
		return !containsFunc(p, func(r rune) bool {
			return !isASCIILower(r) && !isASCIIUpper(r) && !isASCIIDigit(r) && !strings.ContainsRune(PasswordSymbols, r)
		})
	}},
}

// FailedPasswordRules returns the names of the rules password breaks.
func FailedPasswordRules(password string) []string {
	var failed []string
	for _, rule := range PasswordRules {
		if !rule.Check(password) {
			failed = append(failed, rule.Name)
		}
	}
	return failed
}

func IsStrongPassword(password string) bool {
	return len(FailedPasswordRules(password)) == 0
}

func containsFunc(s string, f func(rune) bool) bool {
	return strings.IndexFunc(s, f) >= 0
}

func isASCIILower(r rune) bool { return r <= unicode.MaxASCII && unicode.IsLower(r) }
func isASCIIUpper(r rune) bool { return r <= unicode.MaxASCII && unicode.IsUpper(r) }
func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }
