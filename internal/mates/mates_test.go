// Package mates exercises the full engine (multiple workers, shared
// transposition table) against a small suite of known forced mates, the
// role zurichess's mateIn1/mateIn2 EPD-driven tests played for the
// teacher, adapted to inline positions since this package doesn't carry
// an EPD reader.
package mates

import (
	"testing"

	"github.com/kestrel-engine/kestrel/internal/chess"
	"github.com/kestrel-engine/kestrel/internal/engine"
	"github.com/kestrel-engine/kestrel/internal/nnue"
)

func zeroWeights() *nnue.Weights {
	w := &nnue.Weights{
		FTWeights: make([]int16, nnue.InputSize*nnue.FTSize),
		FTBiases:  make([]int16, nnue.FTSize),
		L1Weights: make([][]int8, nnue.OutputBuckets),
		L1Biases:  make([][]float32, nnue.OutputBuckets),
		L2Weights: make([][]float32, nnue.OutputBuckets),
		L2Biases:  make([][]float32, nnue.OutputBuckets),
		L3Weights: make([][]float32, nnue.OutputBuckets),
		L3Biases:  make([]float32, nnue.OutputBuckets),
	}
	for b := 0; b < nnue.OutputBuckets; b++ {
		w.L1Weights[b] = make([]int8, nnue.FTSize*nnue.L1Size)
		w.L1Biases[b] = make([]float32, nnue.L1Size)
		w.L2Weights[b] = make([]float32, nnue.L1Size*nnue.L2Size)
		w.L2Biases[b] = make([]float32, nnue.L2Size)
		w.L3Weights[b] = make([]float32, nnue.L2Size)
	}
	return w
}

type mateCase struct {
	name  string
	fen   string
	depth int
	best  []string // any of these UCI strings counts as solved
}

var mateIn1 = []mateCase{
	{"backRank", "6k1/5ppp/8/8/8/8/8/4R1K1 w - - 0 1", 3, []string{"e1e8"}},
	{"backRankQueenside", "6k1/5ppp/8/8/8/8/8/3R2K1 w - - 0 1", 3, []string{"d1d8"}},
}

func solve(t *testing.T, tc mateCase, threads int) {
	t.Helper()

	pos, err := chess.FromFEN(tc.fen)
	if err != nil {
		t.Fatalf("%s: FromFEN: %v", tc.name, err)
	}

	opts := engine.DefaultOptions()
	opts.Threads = threads
	e := engine.NewEngine(opts, zeroWeights(), nil)
	e.SetPosition(pos)

	best, _, score := e.Go(engine.GoParams{Depth: tc.depth}, nil)

	solved := false
	for _, want := range tc.best {
		if best.UCI() == want {
			solved = true
			break
		}
	}
	if !solved {
		t.Errorf("%s: best move = %v, want one of %v", tc.name, best, tc.best)
	}
	if score < chess.ValueMate-100 {
		t.Errorf("%s: score = %d, want a near-mate score", tc.name, score)
	}
}

func TestMateIn1SingleThreaded(t *testing.T) {
	for _, tc := range mateIn1 {
		solve(t, tc, 1)
	}
}

func TestMateIn1MultiThreaded(t *testing.T) {
	for _, tc := range mateIn1 {
		solve(t, tc, 3)
	}
}
