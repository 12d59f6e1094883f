package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// LearningItem validation errors
var (
	ErrLearningItemIDEmpty         = errors.New("learning item ID cannot be empty")
	ErrLearningItemUserIDEmpty     = errors.New("learning item user ID cannot be empty")
	ErrLearningItemCategoryIDEmpty = errors.New("learning item category ID cannot be empty")
)

const maxLearningItemTitleLength = 200

// ItemKind describes what sort of thing is being studied.
type ItemKind string

// Possible item kinds.
const (
	ItemKindCourse        ItemKind = "course"
	ItemKindBook          ItemKind = "book"
	ItemKindCertification ItemKind = "certification"
	ItemKindOther         ItemKind = "other"
)

// IsValid reports whether k is a known item kind.
func (k ItemKind) IsValid() bool {
	switch k {
	case ItemKindCourse, ItemKindBook, ItemKindCertification, ItemKindOther:
		return true
	default:
		return false
	}
}

// LearningItem is a course, book or certification made of modules.
// Its progress is cached and recomputed whenever its modules change.
type LearningItem struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	CategoryID uuid.UUID  `json:"category_id"`
	Title      string     `json:"title"`
	Kind       ItemKind   `json:"kind"`
	Status     ItemStatus `json:"status"`
	Progress   Progress   `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewLearningItem creates a backlog item with 0% progress.
func NewLearningItem(userID, categoryID uuid.UUID, title string, kind ItemKind) (*LearningItem, error) {
	now := time.Now().UTC()
	item := &LearningItem{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: categoryID,
		Title:      strings.TrimSpace(title),
		Kind:       kind,
		Status:     ItemStatusBacklog,
		Progress:   ZeroProgress,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the LearningItem has valid data.
func (i *LearningItem) Validate() error {
	if i.ID == uuid.Nil {
		return ErrLearningItemIDEmpty
	}
	if i.UserID == uuid.Nil {
		return ErrLearningItemUserIDEmpty
	}
	if i.CategoryID == uuid.Nil {
		return ErrLearningItemCategoryIDEmpty
	}
	n := utf8.RuneCountInString(i.Title)
	if n == 0 {
		return NewValidationError("title", "cannot be empty", nil)
	}
	if n > maxLearningItemTitleLength {
		return NewValidationError(
			"title",
			fmt.Sprintf("must be at most %d characters, got %d", maxLearningItemTitleLength, n),
			nil,
		)
	}
	if !i.Kind.IsValid() {
		return NewValidationError("kind", fmt.Sprintf("has invalid value %q", i.Kind), nil)
	}
	if !i.Status.IsValid() {
		return NewValidationError("status", fmt.Sprintf("has invalid value %q", i.Status), nil)
	}
	return nil
}

// UpdateStatus moves the item to status if the item state machine allows it.
// Completing an item pins its progress to 100%.
func (i *LearningItem) UpdateStatus(status ItemStatus) error {
	if !status.IsValid() {
		return NewValidationError("status", fmt.Sprintf("has invalid value %q", status), nil)
	}
	if !i.Status.CanTransitionTo(status) {
		return &InvalidTransitionError{
			Entity: "learning item",
			From:   i.Status.String(),
			To:     status.String(),
		}
	}

	i.Status = status
	if status == ItemStatusDone {
		i.Progress = CompleteProgress
	}
	i.UpdatedAt = time.Now().UTC()
	return nil
}

// RefreshProgress recomputes the cached progress from module counts.
// A completed item keeps 100% regardless of its modules.
// It reports whether the cached value changed.
func (i *LearningItem) RefreshProgress(completed, total int) (bool, error) {
	next, err := ProgressFromModules(completed, total)
	if err != nil {
		return false, err
	}
	if i.Status == ItemStatusDone {
		next = CompleteProgress
	}
	if next == i.Progress {
		return false, nil
	}

	i.Progress = next
	i.UpdatedAt = time.Now().UTC()
	return true, nil
}

// IsOwnedBy reports whether userID owns the item.
func (i *LearningItem) IsOwnedBy(userID uuid.UUID) bool {
	return i.UserID == userID
}
