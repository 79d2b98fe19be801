package chess

import "testing"

func TestPerft(t *testing.T) {
	cases := []struct {
		fen   string
		depth int
		nodes uint64
	}{
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", 5, 4865609},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 4, 4085603},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 5, 674624},
		{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 4, 422333},
		{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 4, 2103487},
		{"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10", 4, 3894594},
	}

	for _, tc := range cases {
		if testing.Short() && tc.nodes > 1000000 {
			continue
		}
		pos, err := FromFEN(tc.fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", tc.fen, err)
		}
		if got := Perft(pos, tc.depth); got != tc.nodes {
			t.Errorf("perft(%q, %d) = %d, want %d", tc.fen, tc.depth, got, tc.nodes)
		}
	}
}

func TestPerftShallow(t *testing.T) {
	pos := NewPosition()
	if got := Perft(pos, 1); got != 20 {
		t.Errorf("perft(startpos, 1) = %d, want 20", got)
	}
	if got := Perft(pos, 2); got != 400 {
		t.Errorf("perft(startpos, 2) = %d, want 400", got)
	}
	if got := Perft(pos, 3); got != 8902 {
		t.Errorf("perft(startpos, 3) = %d, want 8902", got)
	}
}
