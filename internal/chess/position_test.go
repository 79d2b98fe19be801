package chess

import (
	"strings"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range fens {
		pos, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", fen, err)
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("FEN round-trip: got %q, want %q", got, fen)
		}
	}
}

func TestFromFENRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN w KQkq - 0 1",
		"8/8/8/8/8/8/8/8 w - - 0 1",
	}
	for _, fen := range bad {
		if _, err := FromFEN(fen); err == nil {
			t.Errorf("FromFEN(%q): expected error, got nil", fen)
		}
	}
}

// TestMakeUndoRestoresHash walks every legal move two plies deep from a
// handful of positions and checks MakeMove/UndoMove round-trips the Zobrist
// hash and FEN exactly.
func TestMakeUndoRestoresHash(t *testing.T) {
	fens := []string{
		FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		pos, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", fen, err)
		}
		wantHash := pos.Hash()
		wantFEN := pos.FEN()

		for _, m1 := range pos.GenerateMoves(GenLegal, NewMoveBuffer()) {
			pos.MakeMove(m1)
			for _, m2 := range pos.GenerateMoves(GenLegal, NewMoveBuffer()) {
				pos.MakeMove(m2)
				pos.UndoMove()
			}
			pos.UndoMove()

			if pos.Hash() != wantHash || pos.FEN() != wantFEN {
				t.Fatalf("make/undo did not restore position for %q after move %s", fen, m1)
			}
		}
	}
}

// TestFullMoveNumberAdvancesOnBlackMoveOnly checks that FullMoveNumber
// increments exactly once per completed move pair (after Black moves, not
// after White) and that UndoMove restores it, matching standard FEN
// semantics.
func TestFullMoveNumberAdvancesOnBlackMoveOnly(t *testing.T) {
	pos := NewPosition()
	if pos.FullMoveNumber != 1 {
		t.Fatalf("FullMoveNumber = %d, want 1 at game start", pos.FullMoveNumber)
	}

	white := pos.GenerateMoves(GenLegal, NewMoveBuffer())[0]
	pos.MakeMove(white)
	if pos.FullMoveNumber != 1 {
		t.Errorf("FullMoveNumber = %d, want 1 after White's move", pos.FullMoveNumber)
	}

	black := pos.GenerateMoves(GenLegal, NewMoveBuffer())[0]
	pos.MakeMove(black)
	if pos.FullMoveNumber != 2 {
		t.Errorf("FullMoveNumber = %d, want 2 after Black's move", pos.FullMoveNumber)
	}
	fields := strings.Fields(pos.FEN())
	if last := fields[len(fields)-1]; last != "2" {
		t.Errorf("FEN() full-move field = %q, want \"2\"", last)
	}

	pos.UndoMove()
	if pos.FullMoveNumber != 1 {
		t.Errorf("FullMoveNumber = %d, want 1 after undoing Black's move", pos.FullMoveNumber)
	}
	pos.UndoMove()
	if pos.FullMoveNumber != 1 {
		t.Errorf("FullMoveNumber = %d, want 1 after undoing White's move", pos.FullMoveNumber)
	}
}

// TestUpcomingRepetitionKnightShuffle checks the case the cuckoo table
// exists for: after White shuffles a knight out and back (3 plies), the
// position differs from the start position by exactly one reversible
// black-knight move (g8-f6), which UpcomingRepetition must recognize at a
// search ply beyond that distance.
func TestUpcomingRepetitionKnightShuffle(t *testing.T) {
	pos := NewPosition()
	playUCI := func(uci string) {
		from, _ := SquareFromString(uci[:2])
		to, _ := SquareFromString(uci[2:4])
		for _, m := range pos.GenerateMoves(GenLegal, NewMoveBuffer()) {
			if m.From() == from && m.To() == to {
				pos.MakeMove(m)
				return
			}
		}
		t.Fatalf("move %s not found in legal move list", uci)
	}
	playUCI("g1f3")
	playUCI("g8f6")
	playUCI("f3g1")

	if !pos.UpcomingRepetition(4) {
		t.Errorf("expected UpcomingRepetition(4) to detect the reversible g8-f6 cycle")
	}
	if pos.UpcomingRepetition(1) {
		t.Errorf("UpcomingRepetition(1) should not fire before the cycle distance is reached")
	}
}
