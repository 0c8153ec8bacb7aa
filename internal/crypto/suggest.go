package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	suggestUppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suggestLowercase = "abcdefghijklmnopqrstuvwxyz"
	suggestDigits    = "0123456789"
	// No quotes, backslashes, or spaces: suggestions must survive being
	// pasted into a shell or a password field unmangled.
	suggestSymbols = "!#$%&()*+,-./:;<=>?@[]^_{|}~"

	// MinSuggestLength matches the account password policy's minimum.
	MinSuggestLength = 8
	MaxSuggestLength = 128
)

var (
	ErrSuggestTooShort = errors.New("suggested password length must be at least 8")
	ErrSuggestTooLong  = errors.New("suggested password length must be at most 128")
)

// SuggestPassword generates a random password of the given length that is
// guaranteed to satisfy the account password policy: at least one uppercase
// letter, one digit, and one special character.
func SuggestPassword(length int) (string, error) {
	if length < MinSuggestLength {
		return "", ErrSuggestTooShort
	}
	if length > MaxSuggestLength {
		return "", ErrSuggestTooLong
	}

	sets := []string{suggestUppercase, suggestLowercase, suggestDigits, suggestSymbols}
	pool := suggestUppercase + suggestLowercase + suggestDigits + suggestSymbols

	result := make([]byte, length)

	// One character from each set first, so every policy rule is met even
	// for the shortest allowed length.
	for i, set := range sets {
		ch, err := randChar(set)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}
	for i := len(sets); i < length; i++ {
		ch, err := randChar(pool)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	if err := secureShuffle(result); err != nil {
		return "", err
	}
	return string(result), nil
}

// randChar picks a random character from charset using crypto/rand.
func randChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}

// secureShuffle performs a Fisher-Yates shuffle using crypto/rand.
func secureShuffle(data []byte) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		data[i], data[j.Int64()] = data[j.Int64()], data[i]
	}
	return nil
}
