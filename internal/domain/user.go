package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID = errors.New("user ID cannot be empty")
	ErrEmptyEmail  = errors.New("email cannot be empty")
)

const maxUserNameLength = 100

// User owns categories, tags and learning items. Every operation in the
// application is scoped to one user.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     Email     `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given name and email address.
// It generates a new UUID for the user ID and sets the creation/update timestamps.
func NewUser(name, email string) (*User, error) {
	addr, err := NewEmail(email)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     addr,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Email.IsZero() {
		return ErrEmptyEmail
	}
	n := utf8.RuneCountInString(u.Name)
	if n == 0 {
		return NewValidationError("name", "cannot be empty", nil)
	}
	if n > maxUserNameLength {
		return NewValidationError(
			"name",
			fmt.Sprintf("must be at most %d characters, got %d", maxUserNameLength, n),
			nil,
		)
	}
	return nil
}
