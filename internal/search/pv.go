package search

import "github.com/kestrel-engine/kestrel/internal/chess"

// pvLine is one row of the triangular principal-variation table: the best
// line found so far rooted at a given ply, as far as this node's subtree
// has been searched.
type pvLine struct {
	moves  [chess.MaxPly + 1]chess.Move
	length int
}

// pvTable is the triangular PV array indexed by ply: update at ply
// splices ply+1's line onto the move just played at ply, so pv[0] always
// holds the best line found for the whole search so far.
type pvTable [chess.MaxPly + 2]pvLine

func (t *pvTable) resetLength(ply int) { t[ply].length = ply }

// update splices move played at ply onto the continuation already found
// one ply deeper, mirroring the reference engine's updatePv.
func (t *pvTable) update(move chess.Move, ply int) {
	t[ply].moves[ply] = move
	for next := ply + 1; next < t[ply+1].length; next++ {
		t[ply].moves[next] = t[ply+1].moves[next]
	}
	t[ply].length = t[ply+1].length
}

// Line returns the best line found for the whole search (ply 0's row).
func (t *pvTable) Line() []chess.Move {
	row := &t[0]
	return append([]chess.Move(nil), row.moves[:row.length]...)
}
