package nnue

import (
	"testing"

	"github.com/kestrel-engine/kestrel/internal/chess"
)

func zeroWeights() *Weights {
	w := &Weights{
		FTWeights: make([]int16, InputSize*FTSize),
		FTBiases:  make([]int16, FTSize),
		L1Weights: make([][]int8, OutputBuckets),
		L1Biases:  make([][]float32, OutputBuckets),
		L2Weights: make([][]float32, OutputBuckets),
		L2Biases:  make([][]float32, OutputBuckets),
		L3Weights: make([][]float32, OutputBuckets),
		L3Biases:  make([]float32, OutputBuckets),
	}
	for b := 0; b < OutputBuckets; b++ {
		w.L1Weights[b] = make([]int8, FTSize*L1Size)
		w.L1Biases[b] = make([]float32, L1Size)
		w.L2Weights[b] = make([]float32, L1Size*L2Size)
		w.L2Biases[b] = make([]float32, L2Size)
		w.L3Weights[b] = make([]float32, L2Size)
	}
	return w
}

func TestEvaluateAllZeroWeightsIsZero(t *testing.T) {
	w := zeroWeights()
	pos := chess.NewPosition()

	e := NewEvaluator(w)
	e.InitRoot(pos)
	acc := e.arena.Frame(0)

	got := e.Eval(pos, acc)
	if got != 0 {
		t.Errorf("Evaluate with all-zero weights = %d, want 0", got)
	}
}

func TestEvaluateNonzeroL3BiasScalesByEvalScale(t *testing.T) {
	w := zeroWeights()
	for b := range w.L3Biases {
		w.L3Biases[b] = 1
	}
	pos := chess.NewPosition()

	e := NewEvaluator(w)
	e.InitRoot(pos)
	acc := e.arena.Frame(0)

	got := e.Eval(pos, acc)
	if got != EvalScale {
		t.Errorf("Evaluate with unit L3 bias = %d, want %d", got, EvalScale)
	}
}

func TestOutputBucketMonotonicWithMaterial(t *testing.T) {
	full := chess.NewPosition()
	if b := OutputBucket(full); b != OutputBuckets-1 {
		t.Errorf("OutputBucket(startpos) = %d, want %d (32 pieces)", b, OutputBuckets-1)
	}

	endgame, err := chess.FromFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	if b := OutputBucket(endgame); b < 0 || b >= OutputBucket(full) {
		t.Errorf("OutputBucket(endgame) = %d, want in [0, %d) (fewer pieces than startpos)", b, OutputBucket(full))
	}
}

func TestBackendsAgree(t *testing.T) {
	stm := make([]int8, FTSize/2)
	other := make([]int8, FTSize/2)
	for i := range stm {
		stm[i] = int8((i * 7) % 128)
		other[i] = int8((i * 13) % 128)
	}
	weights := make([]int8, FTSize*L1Size)
	for i := range weights {
		weights[i] = int8((i*3 + 1) % 128)
	}

	scalarOut := make([]int32, L1Size)
	groupOut := make([]int32, L1Size)
	scalarBackend{}.L1Forward(stm, other, weights, scalarOut)
	groupedBackend{}.L1Forward(stm, other, weights, groupOut)

	for i := range scalarOut {
		if scalarOut[i] != groupOut[i] {
			t.Errorf("backend mismatch at neuron %d: scalar=%d grouped=%d", i, scalarOut[i], groupOut[i])
		}
	}
}
