package domain

import (
	"fmt"
	"math"
)

// Bounds of a Progress value, in percent.
const (
	MinProgress = 0.0
	MaxProgress = 100.0
)

// Progress is a completion percentage in [0,100], rounded to two decimal places.
// The zero value is 0%.
type Progress struct {
	value float64
}

// ZeroProgress is the progress of an item with no completed work.
var ZeroProgress = Progress{}

// CompleteProgress is the progress of a finished item.
var CompleteProgress = Progress{value: MaxProgress}

// NewProgress rounds v to two decimal places and validates the bounds.
func NewProgress(v float64) (Progress, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Progress{}, NewValidationError("progress", fmt.Sprintf("must be a finite number, got %v", v), nil)
	}
	rounded := roundTo2(v)
	if v < MinProgress || rounded > MaxProgress {
		return Progress{}, NewValidationError(
			"progress",
			fmt.Sprintf("must be between 0 and 100, got %v", v),
			nil,
		)
	}
	if rounded == 0 {
		// drops the sign of -0
		rounded = 0
	}
	return Progress{value: rounded}, nil
}

// ProgressFromModules derives progress from module completion counts.
// An item with no modules has 0% progress. Reporting more completed modules
// than exist is an invariant violation.
func ProgressFromModules(completed, total int) (Progress, error) {
	if completed < 0 || total < 0 {
		return Progress{}, &InvariantViolationError{
			Rule:   "module counts must not be negative",
			Detail: fmt.Sprintf("completed=%d total=%d", completed, total),
		}
	}
	if total == 0 {
		return ZeroProgress, nil
	}
	if completed > total {
		return Progress{}, &InvariantViolationError{
			Rule:   "completed modules cannot exceed total modules",
			Detail: fmt.Sprintf("completed=%d total=%d", completed, total),
		}
	}
	return NewProgress(float64(completed) / float64(total) * 100)
}

// Value returns the percentage.
func (p Progress) Value() float64 {
	return p.value
}

// IsComplete reports whether progress is 100%.
func (p Progress) IsComplete() bool {
	return p.value == MaxProgress
}

// String formats the progress as a percentage.
func (p Progress) String() string {
	return fmt.Sprintf("%.2f%%", p.value)
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
