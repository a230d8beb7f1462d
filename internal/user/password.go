package user

import (
	"sync"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	passwordMinLength = 8
	// bcrypt only looks at the first 72 bytes
	passwordMaxBytes = 72
	passwordSymbols  = "@$!%*#?&"
)

// CheckPasswordPolicy requires at least 8 characters drawn from ASCII
// letters, digits and passwordSymbols, with at least one uppercase letter,
// one digit and one symbol.
func CheckPasswordPolicy(password string) error {
	if len(password) > passwordMaxBytes {
		return ErrPasswordTooLong
	}
	if len(password) < passwordMinLength {
		return ErrWeakPassword
	}

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r > unicode.MaxASCII:
			return ErrWeakPassword
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case isSymbol(r):
			hasSymbol = true
		case unicode.IsLower(r):
		default:
			return ErrWeakPassword
		}
	}

	if !hasUpper || !hasDigit || !hasSymbol {
		return ErrWeakPassword
	}
	return nil
}

func isSymbol(r rune) bool {
	for _, s := range passwordSymbols {
		if r == s {
			return true
		}
	}
	return false
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// dummyDigest is compared against when the username is unknown, so a failed
// lookup costs the same bcrypt work as a wrong password.
var dummyDigest = sync.OnceValue(func() string {
	hashed, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(hashed)
})

func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
