package search

import (
	"github.com/kestrel-engine/kestrel/internal/chess"
	"github.com/kestrel-engine/kestrel/internal/nnue"
)

// doMove plays m on w.Pos and drives the NNUE accumulator arena forward in
// lockstep, mirroring the reference engine's Board::makeMove(move,
// update_nnue=true): capture the pre-move piece identities, apply the
// move to the board, then replay the same feature deltas into the new
// accumulator frame.
func (w *Worker) doMove(m chess.Move) {
	from, to, mt := m.From(), m.To(), m.Type()
	mover := w.Pos.PieceAt(from)

	captured := chess.NoPiece
	capSq := to
	if mt.IsCapture() {
		if mt == chess.EnPassant {
			capSq = chess.Square(int(to) ^ 8)
		}
		captured = w.Pos.PieceAt(capSq)
	}

	w.Pos.MakeMove(m)
	w.nodes++

	ply := w.ply()
	acc := w.NNUE.Push(w.Pos, ply)
	prev := w.NNUE.Frame(ply - 1)
	wk, bk := w.Pos.King(chess.White), w.Pos.King(chess.Black)

	if mt == chess.Castling {
		rookFrom, rookTo := chess.CastlingRookSquares(from, to)
		rook := chess.MakePiece(mover.Color(), chess.Rook)
		w.NNUE.Move(acc, prev, rook, rookFrom, rookTo, wk, bk)
	}

	if captured != chess.NoPiece {
		w.NNUE.Remove(acc, prev, captured, capSq, wk, bk)
	}

	if mt.IsPromotion() {
		w.NNUE.Remove(acc, prev, mover, from, wk, bk)
		promoted := chess.MakePiece(mover.Color(), mt.PromotionType())
		w.NNUE.Put(acc, prev, promoted, to, wk, bk)
	} else {
		w.NNUE.Move(acc, prev, mover, from, to, wk, bk)
	}

	if mover.Type() == chess.King && nnue.NeedsRefresh(mover, from, to) {
		w.NNUE.RefreshIfNeeded(w.Pos, acc, mover.Color())
	}
}

// undoMove reverses the most recent doMove. The NNUE arena needs no
// explicit pop: the next doMove/doNull at this ply overwrites the frame.
func (w *Worker) undoMove() { w.Pos.UndoMove() }

// doNull plays a null move: side to move passes, no board feature changes.
func (w *Worker) doNull() {
	w.Pos.MakeNull()
	w.nodes++
	w.NNUE.Carry(w.ply())
}

func (w *Worker) undoNull() { w.Pos.UndoNull() }
