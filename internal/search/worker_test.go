package search

import (
	"testing"

	"github.com/kestrel-engine/kestrel/internal/chess"
	"github.com/kestrel-engine/kestrel/internal/nnue"
	"github.com/kestrel-engine/kestrel/internal/tt"
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

func newTestWorker() *Worker {
	w := NewWorker(0, tt.New(1), zeroWeights(), nil)
	return w
}

func TestSignalStopResetStopped(t *testing.T) {
	var s Signal
	if s.Stopped() {
		t.Fatal("zero Signal should not be stopped")
	}
	s.Stop()
	if !s.Stopped() {
		t.Fatal("Stopped() should be true after Stop()")
	}
	s.Reset()
	if s.Stopped() {
		t.Fatal("Stopped() should be false after Reset()")
	}
}

func TestIterateFindsBackRankMateInOne(t *testing.T) {
	pos, err := chess.FromFEN("6k1/5ppp/8/8/8/8/8/4R1K1 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	w := newTestWorker()
	w.SetPosition(pos)

	best, score := w.Iterate(Limits{Depth: 3}, nil)
	if best.From() != chess.SquareE1 || best.To() != chess.SquareE8 {
		t.Fatalf("Iterate best move = %v, want e1e8", best)
	}
	if score < chess.ValueMate-100 {
		t.Errorf("Iterate score = %d, want a near-mate score", score)
	}
}

func TestIterateReturnsLegalMoveAtShallowDepth(t *testing.T) {
	pos, err := chess.FromFEN("7k/8/8/8/8/8/PPP5/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	w := newTestWorker()
	w.SetPosition(pos)

	best, _ := w.Iterate(Limits{Depth: 1}, nil)
	if best.IsNull() {
		t.Fatal("Iterate returned no move in a position with legal moves")
	}
}
