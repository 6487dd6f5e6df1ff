// Package search finds a short sequence of single-pixel intensity edits that
// turns one grayscale field into another.
//
// The state space has one state per distinct assignment of pixel values, so it
// is never materialized. Each search node stores one edit (x, y, diff) and a
// parent link; the full state is the node's cumulative view, the per-pixel sum
// of every diff along its ancestor chain. Views are persistent tries that
// share structure with the parent's view, built lazily and cached on the node.
//
// The search is a greedy best-first search ordered by h, the exact remaining
// sum of absolute pixel gaps over the sampled grid. Every edit costs one unit
// of g while h moves by the full magnitude of the change, so the ordering is
// not an admissible A* ordering; shortest or optimal paths are not
// guaranteed. The frontier is culled after every step to keep memory bounded,
// which also gives up completeness.
//
// Engines never block or spawn goroutines. Callers drive them with
// Step(ctx, budget) from their own loop (a CLI loop, a UI tick) until a
// terminal State is reached:
//
//	eng, err := search.NewEngine(start, goal, search.WithScale(2))
//	if err != nil {
//	    return err
//	}
//	id, err := eng.Run(ctx)
//	if err != nil {
//	    return err
//	}
//	path := eng.Arena().Path(id)
//
// Coordinator runs a forward and a backward engine in lockstep and stops when
// their explored states meet.
//
// Errors (sentinel):
//
//   - ErrDimensionMismatch if start and goal differ in size.
//   - ErrSearchExhausted if the frontier empties before a goal is found.
//   - ErrStopped once Stop was called or the step context was done.
//   - ErrBadScale, ErrBadBranching, ErrBadBudget for invalid options.
package search
