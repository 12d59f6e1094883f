// Package depgraph guards the prerequisite graph between learning items.
//
// Dependencies are stored as flat edge rows (source requires target). Before
// an edge is added, the engine checks that it is not a self-loop and that the
// target cannot already reach the source through existing edges, which would
// close a cycle. Traversal is an iterative breadth-first search over an edge
// lookup, issuing one lookup per visited item in FIFO order.
package depgraph
