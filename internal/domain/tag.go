package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Tag validation errors
var (
	ErrTagIDEmpty     = errors.New("tag ID cannot be empty")
	ErrTagUserIDEmpty = errors.New("tag user ID cannot be empty")
)

const maxTagNameLength = 30

var tagNamePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Tag is a free-form label attached to learning items.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeTagName trims and lowercases a tag name. Applying it to an
// already normalized name returns the name unchanged.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewTag normalizes name and creates a validated Tag owned by userID.
func NewTag(userID uuid.UUID, name string) (*Tag, error) {
	tag := &Tag{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      NormalizeTagName(name),
		CreatedAt: time.Now().UTC(),
	}

	if err := tag.Validate(); err != nil {
		return nil, err
	}

	return tag, nil
}

// Validate checks if the Tag has valid data. The name must already be normalized.
func (t *Tag) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTagIDEmpty
	}
	if t.UserID == uuid.Nil {
		return ErrTagUserIDEmpty
	}
	return validateTagName(t.Name)
}

func validateTagName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return NewValidationError("name", "cannot be empty", nil)
	}
	if n > maxTagNameLength {
		return NewValidationError(
			"name",
			fmt.Sprintf("must be at most %d characters, got %d", maxTagNameLength, n),
			nil,
		)
	}
	if !tagNamePattern.MatchString(name) {
		return NewValidationError(
			"name",
			fmt.Sprintf("may only contain lowercase letters, digits and hyphens, got %q", name),
			nil,
		)
	}
	return nil
}
