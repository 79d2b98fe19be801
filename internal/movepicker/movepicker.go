// Package movepicker implements the staged move ordering iterator search
// uses to try the most promising moves first: TT move, good captures
// (SEE-gated), killer, counter, quiets, and finally bad captures.
package movepicker

import (
	"github.com/kestrel-engine/kestrel/internal/chess"
	"github.com/kestrel-engine/kestrel/internal/history"
)

// Context selects which of the three staged orderings a MovePicker runs:
// the main search's full stage list, quiescence's noisy-only (plus
// optional quiet-check) list, or probcut's SEE-thresholded noisy list.
type Context int

const (
	ContextMain Context = iota
	ContextQuiescence
	ContextProbcut
)

type stage int

const (
	stagePlayTT stage = iota
	stageGenNoisy
	stagePlayNoisy
	stagePlayKiller
	stagePlayCounter
	stageGenQuiets
	stagePlayQuiets
	stagePlayBadNoisy

	stageGenQuietChecks
	stagePlayQuietChecks

	stageDone
)

const (
	promotionBonus = 8192
	threatBonus    = 16384
)

// PieceValues mirrors the standard centipawn table used for MVV-ish
// capture ordering (distinct from chess.PieceValue, the table SEE uses).
var PieceValues = [chess.NumPieceTypes]int32{100, 320, 330, 500, 900, 0}

// MovePicker is a one-shot staged iterator over one node's legal moves. A
// new MovePicker is constructed per search node; it is not reusable.
type MovePicker struct {
	ctx   Context
	pos   *chess.Position
	hist  *history.Tables
	stack []history.StackEntry
	ply   int

	ttMove   chess.Move
	killer   chess.Move
	counter  chess.Move
	skipQuiets bool
	seeThreshold int32
	genChecks    bool

	stage stage
	idx   int
	main  []chess.Move
	bad   []chess.Move
}

// New builds a MovePicker for the given node. ttMove may be the null move
// if no hash hit occurred. genChecks only matters in ContextQuiescence.
func New(ctx Context, pos *chess.Position, hist *history.Tables, stack []history.StackEntry, ply int, ttMove chess.Move, seeThreshold int32, genChecks bool) *MovePicker {
	mp := &MovePicker{
		ctx:          ctx,
		pos:          pos,
		hist:         hist,
		stack:        stack,
		ply:          ply,
		ttMove:       ttMove,
		seeThreshold: seeThreshold,
		genChecks:    genChecks,
	}

	if ctx == ContextMain {
		if ply > 0 {
			mp.counter = hist.CounterMove(stack[ply-1].Move)
		}
		if ply < len(stack) {
			mp.killer = stack[ply].Killer
		}
	}

	switch ctx {
	case ContextProbcut:
		mp.stage = stageGenNoisy
	case ContextQuiescence:
		if pos.InCheck() {
			mp.stage = stagePlayTT
		} else {
			mp.stage = stageGenNoisy
		}
	default:
		mp.stage = stagePlayTT
	}
	return mp
}

// SkipQuiets tells the picker to stop returning killer/counter/quiet
// moves for the remainder of this node (used when futility pruning has
// already decided no quiet move can help).
func (mp *MovePicker) SkipQuiets() { mp.skipQuiets = true }

// Next returns the next move to try and true, or the null move and false
// once every stage is exhausted.
func (mp *MovePicker) Next() (chess.Move, bool) {
	for {
		switch mp.stage {
		case stagePlayTT:
			mp.stage = stageGenNoisy
			if !mp.ttMove.IsNull() && mp.pos.IsPseudoLegal(mp.ttMove) {
				return mp.ttMove, true
			}

		case stageGenNoisy:
			mp.main = mp.pos.GenerateMoves(chess.GenNoisy, chess.NewMoveBuffer())
			mp.scoreNoisy()
			mp.idx = 0
			mp.stage = stagePlayNoisy

		case stagePlayNoisy:
			if m, ok := mp.nextSorted(); ok {
				if mp.ctx == ContextProbcut {
					if !mp.pos.SEE(m, mp.seeThreshold) {
						continue
					}
					return m, true
				}
				if m.Equal(mp.ttMove) {
					continue
				}
				if mp.ctx == ContextQuiescence {
					if mp.pos.InCheck() && mp.skipQuiets {
						continue
					}
					return m, true
				}
				if !mp.pos.SEE(m, -m.Score()/16) {
					mp.bad = append(mp.bad, m)
					continue
				}
				return m, true
			}
			if mp.ctx != ContextMain {
				if mp.ctx == ContextQuiescence && mp.pos.InCheck() {
					// a position in check can't stand pat: quiet evasions
					// (blocks, king steps) must be tried too, not just captures.
					mp.stage = stageGenQuiets
					continue
				}
				if mp.ctx == ContextQuiescence && mp.genChecks && !mp.pos.InCheck() {
					mp.stage = stageGenQuietChecks
					continue
				}
				mp.stage = stageDone
				continue
			}
			mp.stage = stagePlayKiller

		case stagePlayKiller:
			mp.stage = stagePlayCounter
			if !mp.skipQuiets && !mp.killer.Equal(mp.ttMove) && mp.pos.IsPseudoLegal(mp.killer) && !mp.killer.IsNull() {
				return mp.killer, true
			}

		case stagePlayCounter:
			mp.stage = stageGenQuiets
			if !mp.skipQuiets && !mp.counter.IsNull() && !mp.counter.Equal(mp.ttMove) &&
				!mp.counter.Equal(mp.killer) && mp.pos.IsPseudoLegal(mp.counter) {
				return mp.counter, true
			}

		case stageGenQuiets:
			mp.idx = 0
			if mp.skipQuiets {
				mp.main = nil
			} else {
				mp.main = mp.pos.GenerateMoves(chess.GenQuiets, chess.NewMoveBuffer())
				mp.scoreQuiets()
			}
			mp.stage = stagePlayQuiets

		case stagePlayQuiets:
			if mp.skipQuiets {
				mp.idx = 0
				mp.stage = stagePlayBadNoisy
				continue
			}
			if m, ok := mp.nextSorted(); ok {
				if m.Equal(mp.ttMove) || m.Equal(mp.killer) || m.Equal(mp.counter) {
					continue
				}
				return m, true
			}
			mp.idx = 0
			mp.stage = stagePlayBadNoisy

		case stagePlayBadNoisy:
			if mp.idx < len(mp.bad) {
				m := mp.bad[mp.idx]
				mp.idx++
				if m.Equal(mp.ttMove) {
					continue
				}
				return m, true
			}
			mp.stage = stageDone

		case stageGenQuietChecks:
			mp.main = mp.pos.GenerateMoves(chess.GenQuietChecks, chess.NewMoveBuffer())
			mp.idx = 0
			mp.stage = stagePlayQuietChecks

		case stagePlayQuietChecks:
			if mp.idx < len(mp.main) {
				m := mp.main[mp.idx]
				mp.idx++
				if m.Equal(mp.ttMove) {
					continue
				}
				return m, true
			}
			mp.stage = stageDone

		case stageDone:
			return chess.NullMove, false
		}
	}
}

// nextSorted partially selection-sorts mp.main from idx onward (picking
// the best-scoring remaining move into place) and returns it, matching
// the reference engine's partialInsertionSort. Each call scans every
// remaining move, so a call costs time linear in what is left.
func (mp *MovePicker) nextSorted() (chess.Move, bool) {
	if mp.idx >= len(mp.main) {
		return chess.NullMove, false
	}
	best := mp.idx
	for i := mp.idx + 1; i < len(mp.main); i++ {
		if mp.main[i].Score() > mp.main[best].Score() {
			best = i
		}
	}
	mp.main[mp.idx], mp.main[best] = mp.main[best], mp.main[mp.idx]
	m := mp.main[mp.idx]
	mp.idx++
	return m, true
}

func (mp *MovePicker) scoreNoisy() {
	for i := range mp.main {
		m := &mp.main[i]
		captured := capturedType(mp.pos, *m)
		isCapture := captured != chess.NoPieceType
		var score int32
		if isCapture {
			score = PieceValues[captured]
		}
		if m.Type().IsPromotion() {
			score += promotionBonus
		}
		if isCapture {
			score += int32(mp.hist.CaptureScore(mp.pos, *m))
		}
		m.SetScore(score)
	}
}

func (mp *MovePicker) scoreQuiets() {
	for i := range mp.main {
		m := &mp.main[i]
		score := int32(mp.hist.QuietScore(mp.pos, mp.stack, mp.ply, *m))

		pc := mp.pos.PieceAt(m.From())
		pt := pc.Type()
		if pt != chess.Pawn && pt != chess.King {
			var danger chess.Bitboard
			switch pt {
			case chess.Queen:
				danger = mp.pos.ThreatsBy(chess.Rook)
			case chess.Rook:
				danger = mp.pos.ThreatsBy(chess.Bishop) | mp.pos.ThreatsBy(chess.Knight)
			default:
				danger = mp.pos.ThreatsBy(chess.Pawn)
			}
			bonus := int32(threatBonus)
			if pt == chess.Queen {
				bonus *= 2
			}
			if danger.Has(m.From()) {
				score += bonus
			} else if danger.Has(m.To()) {
				score -= bonus
			}
		}
		m.SetScore(score)
	}
}

func capturedType(pos *chess.Position, m chess.Move) chess.PieceType {
	if m.Type() == chess.EnPassant {
		return chess.Pawn
	}
	return pos.PieceAt(m.To()).Type()
}
