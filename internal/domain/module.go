package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Module validation errors
var (
	ErrModuleIDEmpty             = errors.New("module ID cannot be empty")
	ErrModuleLearningItemIDEmpty = errors.New("module learning item ID cannot be empty")
)

const maxModuleTitleLength = 200

// Module is an ordered sub-unit of a LearningItem. It only exists inside its
// owning item; deleting the item deletes its modules.
type Module struct {
	ID             uuid.UUID    `json:"id"`
	LearningItemID uuid.UUID    `json:"learning_item_id"`
	Title          string       `json:"title"`
	Status         ModuleStatus `json:"status"`
	Order          int          `json:"order"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// ModuleOrder assigns a position to a module during a reorder.
type ModuleOrder struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
}

// NewModule creates a pending Module at the given position of its item.
func NewModule(learningItemID uuid.UUID, title string, order int) (*Module, error) {
	now := time.Now().UTC()
	module := &Module{
		ID:             uuid.New(),
		LearningItemID: learningItemID,
		Title:          strings.TrimSpace(title),
		Status:         ModuleStatusPending,
		Order:          order,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := module.Validate(); err != nil {
		return nil, err
	}

	return module, nil
}

// Validate checks if the Module has valid data.
func (m *Module) Validate() error {
	if m.ID == uuid.Nil {
		return ErrModuleIDEmpty
	}
	if m.LearningItemID == uuid.Nil {
		return ErrModuleLearningItemIDEmpty
	}
	if err := validateModuleTitle(m.Title); err != nil {
		return err
	}
	if !m.Status.IsValid() {
		return NewValidationError("status", fmt.Sprintf("has invalid value %q", m.Status), nil)
	}
	return validateModuleOrder(m.Order)
}

// UpdateStatus moves the module to status if the module state machine allows it.
func (m *Module) UpdateStatus(status ModuleStatus) error {
	if !status.IsValid() {
		return NewValidationError("status", fmt.Sprintf("has invalid value %q", status), nil)
	}
	if !m.Status.CanTransitionTo(status) {
		return &InvalidTransitionError{
			Entity: "module",
			From:   m.Status.String(),
			To:     status.String(),
		}
	}

	m.Status = status
	m.UpdatedAt = time.Now().UTC()
	return nil
}

// Rename changes the module title after validating it.
func (m *Module) Rename(title string) error {
	title = strings.TrimSpace(title)
	if err := validateModuleTitle(title); err != nil {
		return err
	}
	m.Title = title
	m.UpdatedAt = time.Now().UTC()
	return nil
}

// MoveTo changes the module position after validating it.
func (m *Module) MoveTo(order int) error {
	if err := validateModuleOrder(order); err != nil {
		return err
	}
	m.Order = order
	m.UpdatedAt = time.Now().UTC()
	return nil
}

// IsCompleted reports whether the module is done.
func (m *Module) IsCompleted() bool {
	return m.Status == ModuleStatusDone
}

func validateModuleTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n == 0 {
		return NewValidationError("title", "cannot be empty", nil)
	}
	if n > maxModuleTitleLength {
		return NewValidationError(
			"title",
			fmt.Sprintf("must be at most %d characters, got %d", maxModuleTitleLength, n),
			nil,
		)
	}
	return nil
}

func validateModuleOrder(order int) error {
	if order < 0 {
		return NewValidationError("order", fmt.Sprintf("must be >= 0, got %d", order), nil)
	}
	return nil
}
