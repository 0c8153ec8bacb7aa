package validate

import (
	"errors"
	"strings"
	"unicode"
)

// Validation errors carry the code a form displays for the failing field.
var (
	ErrRequired         = errors.New("required")
	ErrInvalidEmail     = errors.New("invalidEmail")
	ErrInvalidPassword  = errors.New("invalidPassword")
	ErrPasswordMismatch = errors.New("passwordMismatch")
	ErrEmailTaken       = errors.New("emailTaken")
)

// SpecialChars is the canonical set of characters that count as "special"
// for the password rules. It is the full ASCII punctuation range plus space.
const SpecialChars = " !\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Func checks a single input value. A nil return means the value passed.
type Func func(value string) error

// Chain runs validators in declared order and returns the first failure,
// so a field always displays one stable error code.
func Chain(value string, fns ...Func) error {
	for _, fn := range fns {
		if err := fn(value); err != nil {
			return err
		}
	}
	return nil
}

// Required fails on empty input. The other validators deliberately pass
// empty values through so that "missing" and "malformed" stay separate codes.
func Required(value string) error {
	if value == "" {
		return ErrRequired
	}
	return nil
}

// Email accepts an empty value or anything shaped like local@domain.tld:
// no whitespace, exactly one @, and a dot somewhere after it.
func Email(value string) error {
	if value == "" {
		return nil
	}
	at := strings.Index(value, "@")
	if at <= 0 || at != strings.LastIndex(value, "@") {
		return ErrInvalidEmail
	}
	domain := value[at+1:]
	dot := strings.Index(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return ErrInvalidEmail
	}
	if strings.ContainsFunc(value, unicode.IsSpace) {
		return ErrInvalidEmail
	}
	return nil
}

// Password accepts an empty value or one that is at least 8 characters long
// and contains an uppercase letter, a digit, and a character from SpecialChars.
func Password(value string) error {
	if value == "" {
		return nil
	}
	if len(value) < 8 {
		return ErrInvalidPassword
	}
	var upper, digit, special bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(SpecialChars, r):
			special = true
		}
	}
	if !upper || !digit || !special {
		return ErrInvalidPassword
	}
	return nil
}

// MatchPasswords compares the password and confirmation fields of a form
// group by exact equality. Two empty values count as matching.
func MatchPasswords(password, confirmPassword string) error {
	if password != confirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}
