package search

import (
	"time"

	"github.com/kestrel-engine/kestrel/internal/chess"
	"github.com/kestrel-engine/kestrel/internal/movepicker"
	"github.com/kestrel-engine/kestrel/internal/tt"
)

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isLimitReached reports whether the search must abort: an explicit stop,
// a node or hard-time budget exhausted, or depth running past Limits.Depth.
// Infinite searches ignore every limit but Stop.
func (w *Worker) isLimitReached(depth int) bool {
	if w.Limits.Infinite {
		return w.Stop.Stopped()
	}
	if w.Stop.Stopped() {
		return true
	}
	if w.Limits.Nodes != 0 && w.nodes >= w.Limits.Nodes {
		return true
	}
	if w.Limits.Depth != 0 && depth > w.Limits.Depth {
		return true
	}
	if w.Limits.Hard != 0 && w.nodes%w.checkEvery == 0 && time.Since(w.startedAt) >= w.Limits.Hard {
		return true
	}
	return false
}

func (w *Worker) rawEval() chess.Score {
	acc := w.NNUE.Frame(w.ply())
	return chess.Score(w.NNUE.Eval(w.Pos, acc))
}

func (w *Worker) adjustEval(raw chess.Score) chess.Score {
	return w.Hist.CorrectedEval(w.Pos, w.histStack, w.ply(), raw)
}

func (w *Worker) updatePV(move chess.Move, ply int) { w.pv.update(move, ply) }

// negamax is the principal-variation search routine: fails soft (the
// returned score may lie outside [alpha, beta]), and is always from the
// point of view of the side to move at ply.
//
// excluded is the singular-extension probe's excluded move (NullMove
// outside of that probe).
func (w *Worker) negamax(depth int, alpha, beta chess.Score, ply int, cutNode bool, excluded chess.Move) chess.Score {
	rootNode := ply == 0
	pvNode := beta-alpha != 1

	w.pv.resetLength(ply)

	if !rootNode && alpha < chess.ValueDraw && w.Pos.UpcomingRepetition(ply) {
		alpha = chess.ValueDraw
		if alpha >= beta {
			return alpha
		}
	}

	if depth <= 0 {
		return w.quiescence(alpha, beta, ply, 0)
	}

	if pvNode && ply > w.selDepth {
		w.selDepth = ply
	}

	if !rootNode {
		if ply >= chess.MaxPly-1 {
			return w.rawEval()
		}
		if w.isLimitReached(depth) {
			return 0
		}

		alpha = max(alpha, chess.Score(ply)-chess.ValueMate)
		beta = min(beta, chess.ValueMate-chess.Score(ply)-1)
		if alpha >= beta {
			return alpha
		}

		if w.Pos.IsDraw(ply) {
			return chess.ValueDraw
		}
	}

	inCheck := w.Pos.InCheck()
	hash := w.Pos.Hash()

	if ply+1 < len(w.histStack) {
		w.histStack[ply+1].Killer = chess.NullMove
	}

	var ent tt.Entry
	ttHit := false
	if excluded.IsNull() {
		ent, ttHit = w.TT.Probe(hash)
	}
	ttMove := chess.NullMove
	ttBound := tt.BoundNone
	ttScore := chess.ValueNone
	ttEval := chess.ValueNone
	ttDepth := 0
	if ttHit {
		ttMove = ent.Move()
		ttBound = ent.Bound()
		ttScore = ent.Score(ply)
		ttEval = ent.Eval()
		ttDepth = ent.Depth()
	}
	ttPV := pvNode || (ttHit && ent.WasPV())

	if !pvNode && ttDepth >= depth && ttScore != chess.ValueNone && !w.Pos.FiftyMoveRule() {
		if ttBound == tt.BoundExact ||
			(ttBound == tt.BoundLower && ttScore >= beta) ||
			(ttBound == tt.BoundUpper && ttScore < beta && ttScore <= alpha) {
			return ttScore
		}
	}

	maxScore := chess.ValueMate
	bestScore := -chess.ValueMate
	oldAlpha := alpha

	if w.TB != nil && !rootNode {
		if tbScore, ok := w.TB.ProbeWDL(w.Pos); ok {
			var bound tt.Bound
			switch {
			case tbScore == chess.ValueTBWin:
				tbScore = chess.ValueMate - chess.Score(ply)
				bound = tt.BoundLower
			case tbScore == -chess.ValueTBWin:
				tbScore = -chess.ValueMate + chess.Score(ply) + 1
				bound = tt.BoundUpper
			default:
				tbScore = chess.ValueDraw
				bound = tt.BoundExact
			}

			if bound == tt.BoundExact || (bound == tt.BoundLower && tbScore >= beta) || (bound == tt.BoundUpper && tbScore <= alpha) {
				w.TT.Store(hash, chess.NullMove, tbScore, ttEval, bound, depth, ply, ttPV)
				return tbScore
			}
			if pvNode {
				if bound == tt.BoundLower {
					bestScore = tbScore
					alpha = max(alpha, bestScore)
				} else {
					maxScore = tbScore
				}
			}
		}
	}

	var rawEv, eval chess.Score
	improving := false
	if inCheck {
		rawEv, eval = chess.ValueNone, chess.ValueNone
	} else {
		if ttHit {
			if ttEval == chess.ValueNone {
				rawEv = w.rawEval()
			} else {
				rawEv = ttEval
			}
			eval = w.adjustEval(rawEv)
			if ttScore != chess.ValueNone &&
				((ttBound == tt.BoundLower && ttScore > eval) || (ttBound == tt.BoundUpper && ttScore <= eval) || ttBound == tt.BoundExact) {
				eval = ttScore
			}
		} else if excluded.IsNull() {
			rawEv = w.rawEval()
			eval = w.adjustEval(rawEv)
			w.TT.Store(hash, chess.NullMove, chess.ValueNone, rawEv, tt.BoundNone, 0, ply, ttPV)
		}

		if ply >= 2 && w.ext[ply-2].StaticEval != chess.ValueNone {
			improving = eval > w.ext[ply-2].StaticEval
		} else if ply >= 4 && w.ext[ply-4].StaticEval != chess.ValueNone {
			improving = eval > w.ext[ply-4].StaticEval
		}
	}
	w.ext[ply].StaticEval = eval

	// internal iterative reduction
	if !inCheck && ttMove.IsNull() && depth >= 4 && (pvNode || cutNode) {
		depth--
	}

	if !inCheck && !pvNode && excluded.IsNull() {
		// reverse futility pruning
		rfpMargin := chess.Score(max(rfpDepthMult*(depth-btoi(improving)), 20))
		if depth <= rfpDepth && eval < chess.ValueTBWinInMaxPly && eval-rfpMargin >= beta {
			return (eval + beta) / 2
		}

		// razoring
		if depth < rzrDepth && eval+rzrDepthMult*chess.Score(depth) < alpha {
			score := w.quiescence(alpha, beta, ply, 0)
			if score <= alpha {
				return score
			}
		}

		// null move pruning
		if depth >= 4 && eval >= beta && eval+nmpDepthMult*chess.Score(depth)-nmpBase >= beta &&
			w.Pos.NonPawnMaterial(w.Pos.SideToMove) && !w.histStack[max(ply-1, 0)].Move.IsNull() && beta > -chess.ValueTBWinInMaxPly {
			r := 4 + depth/nmpRDepthDiv + min(nmpRMin, int(eval-beta)/nmpEvalDiv)

			w.doNull()
			score := -w.negamax(depth-r, -beta, -beta+1, ply+1, !cutNode, chess.NullMove)
			w.undoNull()

			if score >= beta {
				if score >= chess.ValueTBWinInMaxPly {
					score = beta
				}
				return score
			}
		}

		// probcut
		betaCut := beta + probcutMargin
		if depth > 4 && abs32(beta) < chess.ValueTBWinInMaxPly &&
			!(ttDepth >= depth-3 && ttScore != chess.ValueNone && ttScore < betaCut) {
			mp := movepicker.New(movepicker.ContextProbcut, w.Pos, w.Hist, w.histStack, ply, ttMove, betaCut-eval, false)
			for {
				m, ok := mp.Next()
				if !ok {
					break
				}
				if !w.Pos.IsLegal(m) {
					continue
				}
				w.playHistEntry(m, ply)
				w.doMove(m)
				score := -w.quiescence(-betaCut, -betaCut+1, ply+1, 0)
				if score >= betaCut {
					score = -w.negamax(depth-4, -betaCut, -betaCut+1, ply+1, !cutNode, chess.NullMove)
				}
				w.undoMove()

				if score >= betaCut {
					w.TT.Store(hash, m, score, eval, tt.BoundLower, depth-3, ply, ttPV)
					return score
				}
			}
		}
	}

	mp := movepicker.New(movepicker.ContextMain, w.Pos, w.Hist, w.histStack, ply, ttMove, 0, false)

	madeMoves := 0
	var quiets, noisy []chess.Move
	bestMove := chess.NullMove

	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		if m.Equal(excluded) || !w.Pos.IsLegal(m) {
			continue
		}

		startNodes := w.nodes
		madeMoves++

		isCap := m.Type().IsCapture()
		var historyScore int
		if isCap {
			historyScore = w.Hist.CaptureScore(w.Pos, m)
		} else {
			historyScore = w.Hist.QuietScore(w.Pos, w.histStack, ply, m)
		}

		if !rootNode && bestScore > -chess.ValueTBWinInMaxPly {
			quietCount := len(quiets)
			if !pvNode && quietCount > (3+depth*depth)/(2-btoi(improving)) {
				mp.SkipQuiets()
			}

			if !isCap && m.Type() != chess.PromotionQuietQueen {
				if historyScore < -hpMargin*depth && depth <= hpDepth {
					continue
				}
				if !inCheck && depth <= fpDepth && eval+fpBase+chess.Score(depth*fpMult) <= alpha {
					mp.SkipQuiets()
				}
			}

			seeMargin := -seeQuietMargin
			seeDepth := seeQuietDepth
			if isCap {
				seeMargin = -seeCapMargin
				seeDepth = seeCapDepth
			}
			if depth <= seeDepth && !w.Pos.SEE(m, chess.Score(depth*seeMargin)) {
				continue
			}
		}

		if isCap {
			noisy = append(noisy, m)
		} else {
			quiets = append(quiets, m)
		}

		extension := 0

		if !rootNode && depth >= singularDepthMin && ply < 2*w.rootDepth && excluded.IsNull() &&
			ttMove.Equal(m) && ttDepth >= depth-3 && ttBound == tt.BoundLower && abs32(ttScore) < chess.ValueTBWinInMaxPly {
			sBeta := ttScore - 3*chess.Score(depth)
			sDepth := (depth - 1) / 2

			score := w.negamax(sDepth, sBeta-1, sBeta, ply, cutNode, m)
			switch {
			case score < sBeta:
				if !pvNode && score < sBeta-14 {
					extension = 2 + btoi(!isCap && !m.Type().IsPromotion() && score < sBeta-extMargin)
				} else {
					extension = 1
				}
			case sBeta >= beta:
				return sBeta
			case ttScore >= beta:
				extension = -2 + btoi(pvNode)
			case cutNode:
				extension = -2
			case ttScore <= alpha:
				extension = -1
			}
		}

		newDepth := depth - 1 + extension

		givesCheck := w.Pos.GivesCheck(m)
		if givesCheck {
			newDepth += checkDepthExtension
		}

		w.playHistEntry(m, ply)
		w.doMove(m)

		var score chess.Score
		didFull := false

		if depth > 1 && madeMoves > 2+2*btoi(rootNode) && (!pvNode || !isCap) {
			r := reductionFor(depth, madeMoves)
			r += btoi(!improving)
			if cutNode {
				r += 2
			}
			r -= btoi(pvNode) + btoi(ttPV)
			if givesCheck {
				r--
			}
			div := hpQDiv
			if isCap {
				div = hpCDiv
			}
			r -= historyScore / div
			if ttDepth >= depth {
				r--
			}

			lmrDepth := clampInt(newDepth-r, 1, newDepth+1)
			score = -w.negamax(lmrDepth, -alpha-1, -alpha, ply+1, true, chess.NullMove)

			if score > alpha && lmrDepth < newDepth {
				score = -w.negamax(newDepth, -alpha-1, -alpha, ply+1, !cutNode, chess.NullMove)
			}
			didFull = true
		}
		if !didFull && (!pvNode || madeMoves > 1) {
			score = -w.negamax(newDepth, -alpha-1, -alpha, ply+1, !cutNode, chess.NullMove)
		}
		if pvNode && (madeMoves == 1 || (score > alpha && (score < beta || rootNode))) {
			score = -w.negamax(newDepth, -beta, -alpha, ply+1, false, chess.NullMove)
		}

		w.undoMove()

		if rootNode {
			w.moveNodes[m.From()][m.To()] += w.nodes - startNodes
		}

		if w.isLimitReached(depth) {
			return 0
		}

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
				bonusDepth := depth
				if bestScore > beta+hbonusMargin {
					bonusDepth++
				}
				w.Hist.Update(w.Pos, m, quiets, noisy, w.histStack, ply, bonusDepth)
				break
			}
		}
	}

	if madeMoves == 0 {
		if !excluded.IsNull() {
			return alpha
		}
		if inCheck {
			return -chess.ValueMate + chess.Score(ply)
		}
		return chess.ValueDraw
	}

	if bestScore > maxScore {
		bestScore = maxScore
	}

	var bound tt.Bound
	switch {
	case bestScore >= beta:
		bound = tt.BoundLower
	case bestScore <= oldAlpha:
		bound = tt.BoundUpper
	default:
		bound = tt.BoundExact
	}
	if excluded.IsNull() {
		w.TT.Store(hash, bestMove, bestScore, rawEv, bound, depth, ply, ttPV)
	}

	if !inCheck && !bestMove.Type().IsCapture() {
		raises := bestScore >= rawEv
		if (bound == tt.BoundLower && raises) || (bound == tt.BoundUpper && !raises) {
			w.Hist.UpdateCorrection(w.Pos, w.histStack, ply, rawEv, bestScore, depth)
		}
	}

	return bestScore
}

// playHistEntry records the move about to be played at ply into the
// shared history stack, so a child node's continuation-history look-back
// and this node's own counter-move/killer updates see it.
func (w *Worker) playHistEntry(m chess.Move, ply int) {
	w.histStack[ply].Move = m
	w.histStack[ply].Piece = w.Pos.PieceAt(m.From())
}

func reductionFor(depth, moveNumber int) int {
	if depth >= len(reductions) {
		depth = len(reductions) - 1
	}
	if moveNumber >= len(reductions[depth]) {
		moveNumber = len(reductions[depth]) - 1
	}
	return reductions[depth][moveNumber]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs32(v chess.Score) chess.Score {
	if v < 0 {
		return -v
	}
	return v
}
