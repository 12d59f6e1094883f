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

// Category validation errors
var (
	ErrCategoryIDEmpty     = errors.New("category ID cannot be empty")
	ErrCategoryUserIDEmpty = errors.New("category user ID cannot be empty")
)

const maxCategoryNameLength = 50

// hexColorPattern accepts #RGB, #RRGGBB and #RRGGBBAA.
var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Category groups learning items. Names are unique per user; the store
// enforces that constraint.
type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCategory creates a validated Category owned by userID.
func NewCategory(userID uuid.UUID, name, color string) (*Category, error) {
	now := time.Now().UTC()
	category := &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Color:     strings.TrimSpace(color),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCategoryIDEmpty
	}
	if c.UserID == uuid.Nil {
		return ErrCategoryUserIDEmpty
	}
	if err := validateCategoryName(c.Name); err != nil {
		return err
	}
	return validateColor(c.Color)
}

// Rename changes the category name after validating it.
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = name
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Recolor changes the category color after validating it.
func (c *Category) Recolor(color string) error {
	color = strings.TrimSpace(color)
	if err := validateColor(color); err != nil {
		return err
	}
	c.Color = color
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func validateCategoryName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return NewValidationError("name", "cannot be empty", nil)
	}
	if n > maxCategoryNameLength {
		return NewValidationError(
			"name",
			fmt.Sprintf("must be at most %d characters, got %d", maxCategoryNameLength, n),
			nil,
		)
	}
	return nil
}

func validateColor(color string) error {
	if !hexColorPattern.MatchString(color) {
		return NewValidationError(
			"color",
			fmt.Sprintf("must be a hex color (#RGB, #RRGGBB or #RRGGBBAA), got %q", color),
			nil,
		)
	}
	return nil
}
