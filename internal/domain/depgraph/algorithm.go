package depgraph

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
)

// EdgeLister returns the outgoing edges of an item.
type EdgeLister interface {
	FindBySourceItemID(ctx context.Context, sourceItemID uuid.UUID) ([]*domain.Dependency, error)
}

// visitFunc is called for every item dequeued by the traversal, in order.
type visitFunc func(itemID uuid.UUID)

// reachable reports whether goal can be reached from start by following
// outgoing edges. The search is breadth-first with an explicit queue and a
// visited set, so it terminates on any finite graph after at most one edge
// lookup per reachable item, and never recurses.
func reachable(
	ctx context.Context,
	edges EdgeLister,
	start, goal uuid.UUID,
	visit visitFunc,
) (bool, error) {
	if start == goal {
		return true, nil
	}

	visited := map[uuid.UUID]struct{}{start: {}}
	queue := []uuid.UUID{start}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		current := queue[0]
		queue = queue[1:]
		if visit != nil {
			visit(current)
		}

		outgoing, err := edges.FindBySourceItemID(ctx, current)
		if err != nil {
			return false, err
		}

		for _, edge := range outgoing {
			next := edge.TargetItemID
			if next == goal {
				return true, nil
			}
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}

	return false, nil
}
