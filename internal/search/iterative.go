package search

import (
	"sort"
	"time"

	"github.com/kestrel-engine/kestrel/internal/chess"
)

// Info is one iteration's progress report, handed to a Reporter so the
// UCI layer can print `info depth ... pv ...` without this package
// knowing anything about the protocol.
type Info struct {
	Depth    int
	SelDepth int
	Score    chess.Score
	Nodes    uint64
	Time     time.Duration
	PV       []chess.Move
}

// Reporter receives one Info per completed iteration. A nil Reporter is
// fine; Iterate simply reports nothing.
type Reporter func(Info)

// Iterate runs iterative deepening from the current position to either
// Limits.Depth or until Stop/time/nodes cuts it off, and returns the best
// move found together with its score. It mirrors the reference engine's
// bestMove(): aspiration windows around the previous iteration's score,
// and a soft-limit check after each completed depth that also factors in
// how stable the best move has been across the last few iterations.
func (w *Worker) Iterate(limits Limits, report Reporter) (chess.Move, chess.Score) {
	w.Limits = limits
	w.startedAt = time.Now()
	w.nodes = 0
	w.selDepth = 0
	w.rootDepth = 0
	w.TT.NewSearch()

	legal := w.Pos.GenerateMoves(chess.GenLegal, chess.NewMoveBuffer())
	w.rootMoves = w.rootMoves[:0]
	for _, m := range legal {
		if len(limits.RootMoves) > 0 && !containsMove(limits.RootMoves, m) {
			continue
		}
		w.rootMoves = append(w.rootMoves, RootMove{Move: m, Score: -chess.ValueMate})
	}
	if len(w.rootMoves) == 0 {
		return chess.NullMove, chess.ValueDraw
	}
	if len(w.rootMoves) == 1 {
		return w.rootMoves[0].Move, 0
	}

	maxDepth := chess.MaxPly
	if limits.Depth != 0 {
		maxDepth = limits.Depth
	}

	bestMove := w.rootMoves[0].Move
	bestScore := chess.Score(0)
	stability := 0
	var prevBest chess.Move

	for depth := 1; depth <= maxDepth; depth++ {
		w.rootDepth = depth
		score := w.aspirate(depth, bestScore)

		if w.isLimitReached(depth) && depth > 1 {
			break
		}

		sort.SliceStable(w.rootMoves, func(i, j int) bool { return w.rootMoves[i].Score > w.rootMoves[j].Score })
		bestMove = w.rootMoves[0].Move
		bestScore = w.rootMoves[0].Score
		w.Completed = depth

		if bestMove.Equal(prevBest) {
			stability++
		} else {
			stability = 0
		}
		prevBest = bestMove

		if report != nil {
			report(Info{
				Depth:    depth,
				SelDepth: w.selDepth,
				Score:    bestScore,
				Nodes:    w.nodes,
				Time:     time.Since(w.startedAt),
				PV:       w.BestLine(),
			})
		}

		if !limits.Infinite && limits.Soft != 0 {
			elapsed := time.Since(w.startedAt)
			budget := limits.Soft

			// a move that has stayed the best across several iterations lets
			// the search stop earlier; instability asks for more time.
			factor := 1.3 - 0.1*float64(min(stability, 6))
			if factor < 0.5 {
				factor = 0.5
			}
			if float64(elapsed) >= float64(budget)*factor {
				break
			}
		}

		if w.Stop.Stopped() {
			break
		}
	}

	return bestMove, bestScore
}

// aspirate runs negamax at depth starting from a narrow window centered
// on prevScore, widening on fail-high/fail-low until the score lands
// inside the window, matching the reference engine's aspSearch.
func (w *Worker) aspirate(depth int, prevScore chess.Score) chess.Score {
	if depth < aspDepth {
		score := w.negamax(depth, -chess.ValueMate, chess.ValueMate, 0, false, chess.NullMove)
		w.recordRoot(score)
		return score
	}

	delta := chess.Score(aspWindow)
	alpha := clampScoreBound(prevScore-delta, -chess.ValueMate, chess.ValueMate)
	beta := clampScoreBound(prevScore+delta, -chess.ValueMate, chess.ValueMate)

	for {
		score := w.negamax(depth, alpha, beta, 0, false, chess.NullMove)
		if w.isLimitReached(depth) {
			return score
		}

		w.recordRoot(score)

		switch {
		case score <= alpha:
			beta = (alpha + beta) / 2
			alpha = clampScoreBound(score-delta, -chess.ValueMate, chess.ValueMate)
		case score >= beta:
			beta = clampScoreBound(score+delta, -chess.ValueMate, chess.ValueMate)
		default:
			return score
		}

		delta += delta / 2
		if delta > chess.ValueMate {
			alpha, beta = -chess.ValueMate, chess.ValueMate
		}
	}
}

// recordRoot copies the freshly searched PV's root move score into
// rootMoves, so Iterate can re-sort without re-deriving anything from the
// triangular PV table.
func (w *Worker) recordRoot(score chess.Score) {
	line := w.BestLine()
	if len(line) == 0 {
		return
	}
	best := line[0]
	for i := range w.rootMoves {
		if w.rootMoves[i].Move.Equal(best) {
			w.rootMoves[i].PrevScore = w.rootMoves[i].Score
			w.rootMoves[i].Score = score
			w.rootMoves[i].SelDepth = w.selDepth
			w.rootMoves[i].PV = line
			return
		}
	}
}

func containsMove(moves []chess.Move, m chess.Move) bool {
	for _, cand := range moves {
		if cand.Equal(m) {
			return true
		}
	}
	return false
}

func clampScoreBound(v, lo, hi chess.Score) chess.Score {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
