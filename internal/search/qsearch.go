package search

import (
	"github.com/kestrel-engine/kestrel/internal/chess"
	"github.com/kestrel-engine/kestrel/internal/movepicker"
	"github.com/kestrel-engine/kestrel/internal/tt"
)

// quiescence extends the search along capture/check lines past the normal
// depth horizon until the position is quiet, avoiding the horizon effect
// of evaluating a position mid-exchange. qDepth starts at 0 at the first
// call out of negamax and counts down; quiet checking moves are only
// worth generating in the first couple of quiescence plies.
func (w *Worker) quiescence(alpha, beta chess.Score, ply, qDepth int) chess.Score {
	pvNode := beta-alpha != 1

	w.pv.resetLength(ply)

	if pvNode && ply > w.selDepth {
		w.selDepth = ply
	}

	if ply >= chess.MaxPly-1 {
		return w.rawEval()
	}
	if w.Pos.IsDraw(ply) {
		return chess.ValueDraw
	}

	inCheck := w.Pos.InCheck()
	hash := w.Pos.Hash()

	ent, ttHit := w.TT.Probe(hash)
	ttMove := chess.NullMove
	ttBound := tt.BoundNone
	ttScore := chess.ValueNone
	ttEval := chess.ValueNone
	if ttHit {
		ttMove = ent.Move()
		ttBound = ent.Bound()
		ttScore = ent.Score(ply)
		ttEval = ent.Eval()
	}
	ttPV := pvNode || (ttHit && ent.WasPV())

	if !pvNode && ttScore != chess.ValueNone {
		if ttBound == tt.BoundExact ||
			(ttBound == tt.BoundLower && ttScore >= beta) ||
			(ttBound == tt.BoundUpper && ttScore < beta) {
			return ttScore
		}
	}

	var rawEv, standPat chess.Score
	if inCheck {
		standPat = -chess.ValueMate + chess.Score(ply)
	} else {
		if ttEval != chess.ValueNone {
			rawEv = ttEval
		} else {
			rawEv = w.rawEval()
		}
		standPat = w.adjustEval(rawEv)
		if ttScore != chess.ValueNone &&
			((ttBound == tt.BoundLower && ttScore > standPat) || (ttBound == tt.BoundUpper && ttScore <= standPat) || ttBound == tt.BoundExact) {
			standPat = ttScore
		}

		if standPat >= beta {
			if !ttHit {
				w.TT.Store(hash, chess.NullMove, standPat, rawEv, tt.BoundLower, 0, ply, ttPV)
			}
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	bestScore := standPat
	bestMove := chess.NullMove
	futilityBase := standPat + qfpMargin

	genChecks := !inCheck && qDepth >= -1
	mp := movepicker.New(movepicker.ContextQuiescence, w.Pos, w.Hist, w.histStack, ply, ttMove, 0, genChecks)

	madeMoves := 0
	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		if !w.Pos.IsLegal(m) {
			continue
		}
		madeMoves++

		isCap := m.Type().IsCapture()

		if !inCheck && bestScore > -chess.ValueTBWinInMaxPly {
			if isCap && futilityBase <= alpha && !w.Pos.SEE(m, 1) {
				if bestScore < futilityBase {
					bestScore = futilityBase
				}
				continue
			}
			if !w.Pos.SEE(m, 0) {
				continue
			}
		}

		w.playHistEntry(m, ply)
		w.doMove(m)
		score := -w.quiescence(-beta, -alpha, ply+1, qDepth-1)
		w.undoMove()

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				if pvNode {
					w.updatePV(m, ply)
				}
			}
			if alpha >= beta {
				break
			}
		}
	}

	if madeMoves == 0 && inCheck {
		return -chess.ValueMate + chess.Score(ply)
	}

	// qsearch never stores an exact bound: a node here was only partially
	// widened by the capture/check move list, not a full legal-move search.
	var bound tt.Bound
	if bestScore >= beta {
		bound = tt.BoundLower
	} else {
		bound = tt.BoundUpper
	}
	w.TT.Store(hash, bestMove, bestScore, rawEv, bound, 0, ply, ttPV)

	return bestScore
}
