package nnue

import "github.com/kestrel-engine/kestrel/internal/chess"

// Evaluator couples a loaded network with one worker's accumulator arena.
// It is not safe for concurrent use by multiple goroutines; each search
// worker owns its own Evaluator over a shared, read-only *Weights.
type Evaluator struct {
	w     *Weights
	arena *AccumArena
}

// NewEvaluator builds an evaluator over w. w is shared read-only across
// every worker's Evaluator.
func NewEvaluator(w *Weights) *Evaluator {
	return &Evaluator{w: w, arena: NewAccumArena()}
}

// InitRoot populates ply 0's accumulator from scratch for both views, used
// when a worker starts searching a new root position.
func (e *Evaluator) InitRoot(pos *chess.Position) {
	acc := e.arena.Frame(0)
	acc.Reset()
	e.refreshView(pos, acc, chess.White)
	e.refreshView(pos, acc, chess.Black)
}

// refreshView rebuilds view's accumulator from the bias vector and every
// piece currently on the board, then memoizes it in the king-bucket
// refresh table; a later refresh in the same king bucket and mirror half
// reuses it only if the piece placement is identical.
func (e *Evaluator) refreshView(pos *chess.Position, acc *Accum, view chess.Color) {
	data := acc.Data(view)
	copy(data[:], e.w.FTBiases)

	ksq := pos.King(view)
	for pt := chess.PieceType(0); pt < chess.NumPieceTypes; pt++ {
		for _, c := range [2]chess.Color{chess.White, chess.Black} {
			bb := pos.ByPiece(c, pt)
			pc := chess.MakePiece(c, pt)
			for bb != 0 {
				sq := bb.LSB()
				bb &= bb - 1
				idx := FeatureIndex(pc, sq, ksq, view)
				addFeature(data, e.w.FTWeights, idx)
			}
		}
	}
	acc.setInitialized(view)
	acc.kingSq[view] = ksq
	e.storeRefresh(pos, view, ksq, data)
}

func addFeature(data *[FTSize]int16, ftWeights []int16, idx int) {
	row := ftWeights[idx*FTSize : (idx+1)*FTSize]
	for i := range data {
		data[i] += row[i]
	}
}

func subFeature(data *[FTSize]int16, ftWeights []int16, idx int) {
	row := ftWeights[idx*FTSize : (idx+1)*FTSize]
	for i := range data {
		data[i] -= row[i]
	}
}

func (e *Evaluator) storeRefresh(pos *chess.Position, view chess.Color, ksq chess.Square, data *[FTSize]int16) {
	slot := refreshSlot(ksq, view)
	entry := &e.arena.table.entries[view][slot]
	entry.accum = *data
	for pt := chess.PieceType(0); pt < chess.NumPieceTypes; pt++ {
		entry.pieceBB[chess.White][pt] = pos.ByPiece(chess.White, pt)
		entry.pieceBB[chess.Black][pt] = pos.ByPiece(chess.Black, pt)
	}
	entry.valid = true
}

// Push resets the arena frame for ply and returns it; it does not read pos
// or update any accumulator. The search driver calls this after MakeMove
// and then applies the move's feature deltas eagerly with Put/Remove/Move.
func (e *Evaluator) Push(pos *chess.Position, ply int) *Accum {
	acc := e.arena.Frame(ply)
	acc.Reset()
	return acc
}

// Frame returns the arena slot for ply directly, used by the search driver
// to reach the previous ply's accumulator as the incremental base.
func (e *Evaluator) Frame(ply int) *Accum { return e.arena.Frame(ply) }

// Carry copies ply-1's accumulator into ply unchanged, used for null moves:
// side to move flips but no piece feature or king square changes.
func (e *Evaluator) Carry(ply int) *Accum {
	acc := e.arena.Frame(ply)
	prev := e.arena.Frame(ply - 1)
	*acc = *prev
	return acc
}

// Put applies an added piece's feature to both views of acc, given the
// previous ply's accumulator prev as the incremental base.
func (e *Evaluator) Put(acc, prev *Accum, pc chess.Piece, psq, whiteKing, blackKing chess.Square) {
	e.applyOne(acc, prev, chess.White, whiteKing, func(data *[FTSize]int16) {
		addFeature(data, e.w.FTWeights, FeatureIndex(pc, psq, whiteKing, chess.White))
	})
	e.applyOne(acc, prev, chess.Black, blackKing, func(data *[FTSize]int16) {
		addFeature(data, e.w.FTWeights, FeatureIndex(pc, psq, blackKing, chess.Black))
	})
}

// Remove applies a removed piece's feature to both views of acc.
func (e *Evaluator) Remove(acc, prev *Accum, pc chess.Piece, psq, whiteKing, blackKing chess.Square) {
	e.applyOne(acc, prev, chess.White, whiteKing, func(data *[FTSize]int16) {
		subFeature(data, e.w.FTWeights, FeatureIndex(pc, psq, whiteKing, chess.White))
	})
	e.applyOne(acc, prev, chess.Black, blackKing, func(data *[FTSize]int16) {
		subFeature(data, e.w.FTWeights, FeatureIndex(pc, psq, blackKing, chess.Black))
	})
}

// Move applies a from->to feature delta for a non-king piece move to both
// views of acc.
func (e *Evaluator) Move(acc, prev *Accum, pc chess.Piece, from, to, whiteKing, blackKing chess.Square) {
	e.applyOne(acc, prev, chess.White, whiteKing, func(data *[FTSize]int16) {
		subFeature(data, e.w.FTWeights, FeatureIndex(pc, from, whiteKing, chess.White))
		addFeature(data, e.w.FTWeights, FeatureIndex(pc, to, whiteKing, chess.White))
	})
	e.applyOne(acc, prev, chess.Black, blackKing, func(data *[FTSize]int16) {
		subFeature(data, e.w.FTWeights, FeatureIndex(pc, from, blackKing, chess.Black))
		addFeature(data, e.w.FTWeights, FeatureIndex(pc, to, blackKing, chess.Black))
	})
}

func (e *Evaluator) applyOne(acc, prev *Accum, view chess.Color, ksq chess.Square, apply func(*[FTSize]int16)) {
	if !acc.IsInitialized(view) {
		*acc.Data(view) = *prev.Data(view)
	}
	apply(acc.Data(view))
	acc.setInitialized(view)
	acc.kingSq[view] = ksq
}

// RefreshIfNeeded rebuilds view's accumulator from scratch when the king
// crossed a bucket or mirror boundary, per NeedsRefresh, consulting the
// memoized refresh table first.
func (e *Evaluator) RefreshIfNeeded(pos *chess.Position, acc *Accum, view chess.Color) {
	ksq := pos.King(view)
	slot := refreshSlot(ksq, view)
	entry := &e.arena.table.entries[view][slot]
	if entry.valid && entry.matches(pos) {
		*acc.Data(view) = entry.accum
		acc.setInitialized(view)
		acc.kingSq[view] = ksq
		return
	}
	e.refreshView(pos, acc, view)
}

func (en *refreshEntry) matches(pos *chess.Position) bool {
	for pt := chess.PieceType(0); pt < chess.NumPieceTypes; pt++ {
		if en.pieceBB[chess.White][pt] != pos.ByPiece(chess.White, pt) {
			return false
		}
		if en.pieceBB[chess.Black][pt] != pos.ByPiece(chess.Black, pt) {
			return false
		}
	}
	return true
}

// Eval runs the forward pass for pos using acc, which must already be
// initialized for both views (via InitRoot, incremental Put/Remove/Move,
// or RefreshIfNeeded).
func (e *Evaluator) Eval(pos *chess.Position, acc *Accum) int32 {
	return Evaluate(e.w, pos, acc)
}
