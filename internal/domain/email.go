package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxEmailLength = 254

var emailValidator = validator.New()

// Email is a normalized, validated email address.
// The zero value is not a valid Email; use NewEmail.
type Email struct {
	value string
}

// NewEmail trims and lowercases the address and validates its format.
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Email{}, NewValidationError("email", "cannot be empty", nil)
	}
	if len(normalized) > maxEmailLength {
		return Email{}, NewValidationError("email", "must be at most 254 characters", nil)
	}
	if err := emailValidator.Var(normalized, "email"); err != nil {
		return Email{}, NewValidationError("email", "has invalid format: "+normalized, nil)
	}
	return Email{value: normalized}, nil
}

// String returns the normalized address.
func (e Email) String() string {
	return e.value
}

// IsZero reports whether the Email was never constructed.
func (e Email) IsZero() bool {
	return e.value == ""
}

// MarshalText encodes the address for JSON and other text formats.
func (e Email) MarshalText() ([]byte, error) {
	return []byte(e.value), nil
}

// UnmarshalText decodes and validates an address.
func (e *Email) UnmarshalText(text []byte) error {
	parsed, err := NewEmail(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Equal compares two addresses.
func (e Email) Equal(other Email) bool {
	return e.value == other.value
}
