package movepicker

import (
	"testing"

	"github.com/kestrel-engine/kestrel/internal/chess"
	"github.com/kestrel-engine/kestrel/internal/history"
)

func TestMainSearchReturnsEveryLegalMoveExactlyOnce(t *testing.T) {
	pos, err := chess.FromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	hist := history.NewTables()
	stack := make([]history.StackEntry, 4)

	want := map[chess.Move]bool{}
	for _, m := range pos.GenerateMoves(chess.GenLegal, chess.NewMoveBuffer()) {
		want[m] = true
	}

	mp := New(ContextMain, pos, hist, stack, 0, chess.NullMove, 0, false)
	got := map[chess.Move]bool{}
	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		if !pos.IsLegal(m) {
			continue // TT/killer/counter slots can offer pseudo-legal-but-illegal moves; caller filters
		}
		if got[m] {
			t.Fatalf("move %s returned twice", m)
		}
		got[m] = true
	}

	for m := range want {
		if !got[m] {
			t.Errorf("legal move %s never returned by MovePicker", m)
		}
	}
	for m := range got {
		if !want[m] {
			t.Errorf("MovePicker returned %s, which is not legal", m)
		}
	}
}

func TestTTMoveReturnedFirst(t *testing.T) {
	pos := chess.NewPosition()
	hist := history.NewTables()
	stack := make([]history.StackEntry, 4)

	legal := pos.GenerateMoves(chess.GenLegal, chess.NewMoveBuffer())
	ttMove := legal[len(legal)-1]

	mp := New(ContextMain, pos, hist, stack, 0, ttMove, 0, false)
	first, ok := mp.Next()
	if !ok || !first.Equal(ttMove) {
		t.Fatalf("first move = %v, want TT move %v", first, ttMove)
	}
}

func TestQuiescenceSkipsQuietMovesOutOfCheck(t *testing.T) {
	pos := chess.NewPosition()
	hist := history.NewTables()
	stack := make([]history.StackEntry, 4)

	mp := New(ContextQuiescence, pos, hist, stack, 0, chess.NullMove, 0, false)
	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		if !m.Type().IsCapture() && !m.Type().IsPromotion() {
			t.Errorf("quiescence (no checks, not in check) returned a quiet move: %s", m)
		}
	}
}
