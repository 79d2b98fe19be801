// Package history implements the search's move-ordering memory: butterfly
// (quiet), capture, pawn-structure, and continuation history tables, plus
// killer/counter moves and the two correction-history families used to
// adjust a node's static evaluation toward what search actually found.
package history

import "github.com/kestrel-engine/kestrel/internal/chess"

const (
	historyBonusMult  = 337
	historyBonusMinus = -59
	maxHistoryBonus   = 2377

	historyMalusMult  = 325
	historyMalusMinus = 98
	maxHistoryMalus   = 1634
)

// Bonus returns the history increment for a move that raised alpha at
// depth, clamped below maxHistoryBonus.
func Bonus(depth int) int {
	b := historyBonusMult*depth + historyBonusMinus
	if b > maxHistoryBonus {
		return maxHistoryBonus
	}
	return b
}

// Malus returns the history decrement for a move that was tried and
// failed to beat the best move at depth, clamped below maxHistoryMalus.
func Malus(depth int) int {
	m := historyMalusMult*depth + historyMalusMinus
	if m > maxHistoryMalus {
		return maxHistoryMalus
	}
	return m
}

// adjustedBonus scales bonus down as value approaches the saturation
// bound, so repeated updates converge instead of overflowing int16.
func adjustedBonus(value int16, bonus int) int {
	return bonus - int(value)*abs(bonus)/16384
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// corrIdx folds a 64-bit hash into a correction-table slot.
func corrIdx(hash uint64) uint64 { return hash % corrSize }

const corrSize = 16384

// StackEntry is the per-ply search context history needs: the move played
// into this ply and the piece that played it, so continuation history can
// look back 1/2/4/6 plies. The search package owns the backing array; this
// package only reads it.
type StackEntry struct {
	Move   chess.Move
	Piece  chess.Piece
	Killer chess.Move
}

// Tables holds every history family for one search (shared across a
// worker's whole search tree, reset only between games via Clear).
type Tables struct {
	quiet   [2][64][64]int16                       // [color][from][to]
	capture [chess.NumPieces][64][chess.NumPieceTypes]int16 // [piece][to][captured type]
	pawn    []int16                                // [corrSize*NumPieces*64], see pawnIdx
	cont    [chess.NumPieces][64][chess.NumPieces][64]int16 // [prevPiece][prevTo][piece][to]

	counters [64][64]chess.Move // [from][to] of the move being countered

	pawnCorr       [2][corrSize]int16
	whiteNonPawnCorr [2][corrSize]int16
	blackNonPawnCorr [2][corrSize]int16
	contCorr       [chess.NumPieces][64][chess.NumPieces][64]int16
}

// NewTables allocates a zeroed set of history tables.
func NewTables() *Tables {
	t := &Tables{}
	t.pawn = make([]int16, corrSize*int(chess.NumPieces)*64)
	return t
}

// Clear zeroes every table, used at `ucinewgame`.
func (t *Tables) Clear() {
	*t = Tables{pawn: t.pawn}
	for i := range t.pawn {
		t.pawn[i] = 0
	}
}

func (t *Tables) pawnIdx(hash uint64, pc chess.Piece, to chess.Square) int {
	return (int(corrIdx(hash))*int(chess.NumPieces)+int(pc))*64 + int(to)
}

// Update applies the bonus/malus sweep after a beta cutoff, mirroring the
// reference engine's History::update. A quiet best becomes the killer and
// counter move and, when depth > 3 or more than one quiet was tried, gets a
// bonus while the other quiets get a malus; a noisy best gets a capture
// bonus. Every noisy move other than best gets a capture malus.
func (t *Tables) Update(pos *chess.Position, best chess.Move, quiets, noisy []chess.Move, stack []StackEntry, ply, depth int) {
	stm := pos.SideToMove
	bonus := Bonus(depth)
	malus := Malus(depth)

	if !best.Type().IsCapture() && !best.Type().IsPromotion() {
		if ply > 0 {
			prev := stack[ply-1].Move
			if !prev.IsNull() {
				t.counters[prev.From()][prev.To()] = best
			}
		}
		stack[ply].Killer = best

		if depth > 3 || len(quiets) > 1 {
			t.updateQuiet(stm, best, bonus)
			t.updatePawn(pos, best, bonus)
			t.updateCont(pos.PieceAt(best.From()), best.To(), stack, ply, bonus)

			for _, m := range quiets {
				if m.Equal(best) {
					continue
				}
				t.updateQuiet(stm, m, -malus)
				t.updatePawn(pos, m, -malus)
				t.updateCont(pos.PieceAt(m.From()), m.To(), stack, ply, -malus)
			}
		}
	} else {
		t.updateCapture(pos, best, bonus)
	}

	for _, m := range noisy {
		if m.Equal(best) {
			continue
		}
		t.updateCapture(pos, m, -malus)
	}
}

func (t *Tables) updateQuiet(c chess.Color, m chess.Move, bonus int) {
	v := &t.quiet[c][m.From()][m.To()]
	*v += int16(adjustedBonus(*v, bonus))
}

func (t *Tables) updateCapture(pos *chess.Position, m chess.Move, bonus int) {
	pc := pos.PieceAt(m.From())
	captured := capturedType(pos, m)
	v := &t.capture[pc][m.To()][captured]
	*v += int16(adjustedBonus(*v, bonus))
}

func (t *Tables) updatePawn(pos *chess.Position, m chess.Move, bonus int) {
	pc := pos.PieceAt(m.From())
	idx := t.pawnIdx(pos.PawnHash(), pc, m.To())
	v := &t.pawn[idx]
	*v += int16(adjustedBonus(*v, bonus))
}

func (t *Tables) updateCont(pc chess.Piece, to chess.Square, stack []StackEntry, ply, bonus int) {
	for _, back := range [4]int{1, 2, 4, 6} {
		i := ply - back
		if i < 0 {
			continue
		}
		prev := stack[i]
		if prev.Move.IsNull() {
			continue
		}
		v := &t.cont[prev.Piece][prev.Move.To()][pc][to]
		*v += int16(adjustedBonus(*v, bonus))
	}
}

func capturedType(pos *chess.Position, m chess.Move) chess.PieceType {
	if m.Type() == chess.EnPassant {
		return chess.Pawn
	}
	return pos.PieceAt(m.To()).Type()
}

// QuietScore returns the butterfly-plus-continuation ordering score for a
// quiet move about to be tried at ply.
func (t *Tables) QuietScore(pos *chess.Position, stack []StackEntry, ply int, m chess.Move) int {
	stm := pos.SideToMove
	score := int(t.quiet[stm][m.From()][m.To()])
	pc := pos.PieceAt(m.From())
	for _, back := range [4]int{1, 2, 4, 6} {
		i := ply - back
		if i < 0 {
			continue
		}
		prev := stack[i]
		if prev.Move.IsNull() {
			continue
		}
		score += int(t.cont[prev.Piece][prev.Move.To()][pc][m.To()])
	}
	return score
}

// CaptureScore returns the capture-history ordering score for a noisy
// move.
func (t *Tables) CaptureScore(pos *chess.Position, m chess.Move) int {
	pc := pos.PieceAt(m.From())
	return int(t.capture[pc][m.To()][capturedType(pos, m)])
}

// CounterMove returns the move previously recorded as a good reply to
// prevMove, or the null move if none is known.
func (t *Tables) CounterMove(prevMove chess.Move) chess.Move {
	if prevMove.IsNull() {
		return chess.NullMove
	}
	return t.counters[prevMove.From()][prevMove.To()]
}

// UpdateCorrection folds the gap between a node's static eval and its
// searched score into the material and continuation correction tables,
// used to de-bias future static evals of similar positions.
func (t *Tables) UpdateCorrection(pos *chess.Position, stack []StackEntry, ply int, rawEval, searchedScore chess.Score, depth int) {
	diff := int(searchedScore - rawEval)
	stm := pos.SideToMove

	updateCorr(&t.pawnCorr[stm][corrIdx(pos.PawnHash())], diff, depth)
	updateCorr(&t.whiteNonPawnCorr[stm][corrIdx(pos.NonPawnHash(chess.White))], diff, depth)
	updateCorr(&t.blackNonPawnCorr[stm][corrIdx(pos.NonPawnHash(chess.Black))], diff, depth)

	if ply < 2 {
		return
	}
	prev, pprev := stack[ply-1], stack[ply-2]
	if prev.Move.IsNull() || pprev.Move.IsNull() {
		return
	}
	updateCorr(&t.contCorr[prev.Piece][prev.Move.To()][pprev.Piece][pprev.Move.To()], diff, depth)
}

func updateCorr(value *int16, diff, depth int) {
	bonus := clamp(diff*depth/8, -256, 256)
	*value += int16(bonus - int(*value)*abs(bonus)/1024)
}

// CorrectedEval adjusts rawEval by the accumulated material and
// continuation corrections for pos (their sum divided by 256), clamped to
// stay strictly inside the tablebase-score range.
func (t *Tables) CorrectedEval(pos *chess.Position, stack []StackEntry, ply int, rawEval chess.Score) chess.Score {
	stm := pos.SideToMove
	corr := int(t.pawnCorr[stm][corrIdx(pos.PawnHash())]) +
		int(t.whiteNonPawnCorr[stm][corrIdx(pos.NonPawnHash(chess.White))]) +
		int(t.blackNonPawnCorr[stm][corrIdx(pos.NonPawnHash(chess.Black))])

	if ply >= 2 {
		prev, pprev := stack[ply-1], stack[ply-2]
		if !prev.Move.IsNull() && !pprev.Move.IsNull() {
			corr += int(t.contCorr[prev.Piece][prev.Move.To()][pprev.Piece][pprev.Move.To()])
		}
	}
	corrected := clamp(int(rawEval)+corr/256, int(chess.ValueTBLossInMaxPly)+1, int(chess.ValueTBWinInMaxPly)-1)
	return chess.Score(corrected)
}
