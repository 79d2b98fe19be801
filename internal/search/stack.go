package search

import "github.com/kestrel-engine/kestrel/internal/chess"

// stackExt is the per-ply search-only context that sits alongside
// history.StackEntry (which the history package owns and reads). Index i
// of a stackExt slice and of the parallel []history.StackEntry passed to
// history methods always refer to the same ply; history.go already
// guards every ply-k look-back with an i<0 check, so no negative-index
// padding is needed here.
type stackExt struct {
	StaticEval chess.Score
	Excluded   chess.Move // singular-extension search's excluded TT move
}

// newStackExt allocates a stackExt slice covering the deepest possible search.
func newStackExt() []stackExt {
	return make([]stackExt, chess.MaxPly+1)
}
