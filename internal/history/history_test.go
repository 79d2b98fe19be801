package history

import (
	"testing"

	"github.com/kestrel-engine/kestrel/internal/chess"
)

func TestBonusAndMalusClampAtDepth(t *testing.T) {
	if b := Bonus(1); b != historyBonusMult+historyBonusMinus {
		t.Errorf("Bonus(1) = %d, want %d", b, historyBonusMult+historyBonusMinus)
	}
	if b := Bonus(100); b != maxHistoryBonus {
		t.Errorf("Bonus(100) = %d, want clamp at %d", b, maxHistoryBonus)
	}
	if m := Malus(100); m != maxHistoryMalus {
		t.Errorf("Malus(100) = %d, want clamp at %d", m, maxHistoryMalus)
	}
}

func TestUpdateQuietRaisesThenBestMoveOutscoresOthers(t *testing.T) {
	pos := chess.NewPosition()
	tbl := NewTables()

	best := chess.NewMove(chess.SquareE2, chess.SquareE4, chess.Quiet)
	other := chess.NewMove(chess.SquareD2, chess.SquareD4, chess.Quiet)

	stack := make([]StackEntry, 8)
	tbl.Update(pos, best, []chess.Move{other}, nil, stack, 0, 8)

	bestScore := tbl.QuietScore(pos, stack, 0, best)
	otherScore := tbl.QuietScore(pos, stack, 0, other)
	if bestScore <= otherScore {
		t.Errorf("best move score %d should exceed malus'd move score %d", bestScore, otherScore)
	}
	if bestScore <= 0 {
		t.Errorf("best move score %d should be positive after a bonus update", bestScore)
	}
	if otherScore >= 0 {
		t.Errorf("malus'd move score %d should be negative", otherScore)
	}
}

func TestCounterMoveRecordedAndRetrieved(t *testing.T) {
	pos := chess.NewPosition()
	tbl := NewTables()

	prevMove := chess.NewMove(chess.SquareD2, chess.SquareD4, chess.Quiet)
	best := chess.NewMove(chess.SquareG8, chess.SquareF6, chess.Quiet)

	stack := []StackEntry{{Move: prevMove, Piece: chess.WhitePawn}, {}}
	tbl.Update(pos, best, nil, nil, stack, 1, 8)

	if got := tbl.CounterMove(prevMove); !got.Equal(best) {
		t.Errorf("CounterMove = %v, want %v", got, best)
	}
}

func TestCorrectionEvalShiftsTowardSearchedScore(t *testing.T) {
	pos := chess.NewPosition()
	tbl := NewTables()
	stack := make([]StackEntry, 4)

	raw := chess.Score(20)
	searched := chess.Score(120)
	tbl.UpdateCorrection(pos, stack, 2, raw, searched, 8)

	corrected := tbl.CorrectedEval(pos, stack, 2, raw)
	if corrected <= raw {
		t.Errorf("CorrectedEval = %d, want something above raw eval %d after a positive correction", corrected, raw)
	}
}

func TestClearResetsQuietHistory(t *testing.T) {
	pos := chess.NewPosition()
	tbl := NewTables()
	m := chess.NewMove(chess.SquareE2, chess.SquareE4, chess.Quiet)
	stack := make([]StackEntry, 4)
	tbl.Update(pos, m, nil, nil, stack, 0, 8)

	if tbl.QuietScore(pos, stack, 0, m) == 0 {
		t.Fatal("expected nonzero score before Clear")
	}
	tbl.Clear()
	if got := tbl.QuietScore(pos, stack, 0, m); got != 0 {
		t.Errorf("QuietScore after Clear = %d, want 0", got)
	}
}
