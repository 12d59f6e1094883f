package depgraph

import (
	"context"

	"github.com/google/uuid"
)

// EdgeReader is the part of the dependency store the engine depends on.
type EdgeReader interface {
	EdgeLister

	// Exists reports whether the exact edge source→target is stored.
	Exists(ctx context.Context, sourceItemID, targetItemID uuid.UUID) (bool, error)
}

// Verdict classifies a proposed edge.
type Verdict int

// Possible verdicts, in the order they are checked.
const (
	VerdictAllowed Verdict = iota
	VerdictSelfLoop
	VerdictDuplicate
	VerdictCycle
)

// String returns a readable verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictAllowed:
		return "allowed"
	case VerdictSelfLoop:
		return "self_loop"
	case VerdictDuplicate:
		return "duplicate"
	case VerdictCycle:
		return "cycle"
	default:
		return "unknown"
	}
}

// Engine decides whether a dependency edge may be added.
// It reports findings as values; callers turn them into user-facing errors.
// Store failures are the only errors it returns.
type Engine interface {
	// WouldCreateCycle reports whether adding source→target would close a cycle.
	// A self-loop counts as a cycle and is detected without touching the store.
	WouldCreateCycle(ctx context.Context, sourceItemID, targetItemID uuid.UUID) (bool, error)

	// Exists reports whether the exact edge source→target already exists.
	Exists(ctx context.Context, sourceItemID, targetItemID uuid.UUID) (bool, error)

	// Check runs the self-loop, duplicate and cycle checks in that order and
	// returns the first failing verdict, or VerdictAllowed.
	Check(ctx context.Context, sourceItemID, targetItemID uuid.UUID) (Verdict, error)
}

// Option configures an engine.
type Option func(*engine)

// WithVisitHook registers a function called for every item the traversal
// dequeues, in visitation order.
func WithVisitHook(fn func(itemID uuid.UUID)) Option {
	return func(e *engine) {
		e.visit = fn
	}
}

type engine struct {
	edges EdgeReader
	visit visitFunc
}

// NewEngine creates an engine reading edges from the given store.
func NewEngine(edges EdgeReader, opts ...Option) Engine {
	e := &engine{edges: edges}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WouldCreateCycle implements Engine.WouldCreateCycle.
// Adding source→target closes a loop exactly when target already reaches source.
func (e *engine) WouldCreateCycle(
	ctx context.Context,
	sourceItemID, targetItemID uuid.UUID,
) (bool, error) {
	if sourceItemID == targetItemID {
		return true, nil
	}
	return reachable(ctx, e.edges, targetItemID, sourceItemID, e.visit)
}

// Exists implements Engine.Exists.
func (e *engine) Exists(ctx context.Context, sourceItemID, targetItemID uuid.UUID) (bool, error) {
	return e.edges.Exists(ctx, sourceItemID, targetItemID)
}

// Check implements Engine.Check.
func (e *engine) Check(ctx context.Context, sourceItemID, targetItemID uuid.UUID) (Verdict, error) {
	if sourceItemID == targetItemID {
		return VerdictSelfLoop, nil
	}

	exists, err := e.Exists(ctx, sourceItemID, targetItemID)
	if err != nil {
		return VerdictAllowed, err
	}
	if exists {
		return VerdictDuplicate, nil
	}

	cycle, err := e.WouldCreateCycle(ctx, sourceItemID, targetItemID)
	if err != nil {
		return VerdictAllowed, err
	}
	if cycle {
		return VerdictCycle, nil
	}

	return VerdictAllowed, nil
}
