package domain

import "fmt"

// ItemStatus is the lifecycle status of a LearningItem.
type ItemStatus string

// Possible learning item statuses.
const (
	ItemStatusBacklog    ItemStatus = "Backlog"
	ItemStatusInProgress ItemStatus = "Em_Andamento"
	ItemStatusPaused     ItemStatus = "Pausado"
	ItemStatusDone       ItemStatus = "Concluido"
)

// ItemStatuses lists every item status in lifecycle order.
var ItemStatuses = []ItemStatus{
	ItemStatusBacklog,
	ItemStatusInProgress,
	ItemStatusPaused,
	ItemStatusDone,
}

// itemTransitions is the item state machine. A status may move to exactly
// the statuses listed in its row.
var itemTransitions = map[ItemStatus][]ItemStatus{
	ItemStatusBacklog:    {ItemStatusBacklog, ItemStatusInProgress, ItemStatusPaused, ItemStatusDone},
	ItemStatusInProgress: {ItemStatusPaused, ItemStatusDone},
	ItemStatusPaused:     {ItemStatusInProgress, ItemStatusDone},
	ItemStatusDone:       {},
}

// ParseItemStatus validates s and returns the matching ItemStatus.
func ParseItemStatus(s string) (ItemStatus, error) {
	status := ItemStatus(s)
	if !status.IsValid() {
		return "", NewValidationError("status", fmt.Sprintf("has invalid value %q", s), nil)
	}
	return status, nil
}

// IsValid reports whether s is a known item status.
func (s ItemStatus) IsValid() bool {
	_, ok := itemTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s ItemStatus) IsTerminal() bool {
	return s.IsValid() && len(itemTransitions[s]) == 0
}

// CanTransitionTo reports whether an item in status s may move to next.
func (s ItemStatus) CanTransitionTo(next ItemStatus) bool {
	for _, allowed := range itemTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns a copy of the statuses reachable from s.
func (s ItemStatus) AllowedTransitions() []ItemStatus {
	return append([]ItemStatus(nil), itemTransitions[s]...)
}

// String returns the status name.
func (s ItemStatus) String() string {
	return string(s)
}

// ModuleStatus is the completion status of a Module.
type ModuleStatus string

// Possible module statuses.
const (
	ModuleStatusPending    ModuleStatus = "Pendente"
	ModuleStatusInProgress ModuleStatus = "Em_Andamento"
	ModuleStatusDone       ModuleStatus = "Concluido"
)

// ModuleStatuses lists every module status in lifecycle order.
var ModuleStatuses = []ModuleStatus{
	ModuleStatusPending,
	ModuleStatusInProgress,
	ModuleStatusDone,
}

var moduleTransitions = map[ModuleStatus][]ModuleStatus{
	ModuleStatusPending:    {ModuleStatusPending, ModuleStatusInProgress, ModuleStatusDone},
	ModuleStatusInProgress: {ModuleStatusDone},
	ModuleStatusDone:       {},
}

// ParseModuleStatus validates s and returns the matching ModuleStatus.
func ParseModuleStatus(s string) (ModuleStatus, error) {
	status := ModuleStatus(s)
	if !status.IsValid() {
		return "", NewValidationError("status", fmt.Sprintf("has invalid value %q", s), nil)
	}
	return status, nil
}

// IsValid reports whether s is a known module status.
func (s ModuleStatus) IsValid() bool {
	_, ok := moduleTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s ModuleStatus) IsTerminal() bool {
	return s.IsValid() && len(moduleTransitions[s]) == 0
}

// CanTransitionTo reports whether a module in status s may move to next.
func (s ModuleStatus) CanTransitionTo(next ModuleStatus) bool {
	for _, allowed := range moduleTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns a copy of the statuses reachable from s.
func (s ModuleStatus) AllowedTransitions() []ModuleStatus {
	return append([]ModuleStatus(nil), moduleTransitions[s]...)
}

// String returns the status name.
func (s ModuleStatus) String() string {
	return string(s)
}
