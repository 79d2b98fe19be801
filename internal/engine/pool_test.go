package engine

import (
	"testing"

	"github.com/kestrel-engine/kestrel/internal/chess"
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

func TestPickBestSingleWorker(t *testing.T) {
	results := []workerResult{{move: chess.NewMove(chess.SquareE2, chess.SquareE4, chess.Quiet), score: 10, completed: 4}}
	if got := pickBest(results, 1); got != 0 {
		t.Fatalf("pickBest = %d, want 0", got)
	}
}

func TestPickBestSkipsUnfinishedWorkers(t *testing.T) {
	a := chess.NewMove(chess.SquareE2, chess.SquareE4, chess.Quiet)
	b := chess.NewMove(chess.SquareD2, chess.SquareD4, chess.Quiet)
	results := []workerResult{
		{move: a, score: 30, completed: 6},
		{move: b, score: 1000, completed: 0}, // never finished a depth: must not win
	}
	if got := pickBest(results, 1); got != 0 {
		t.Fatalf("pickBest = %d, want 0 (worker 1 never completed a depth)", got)
	}
}

func TestPickBestDecisiveScoreBeatsVotes(t *testing.T) {
	a := chess.NewMove(chess.SquareE2, chess.SquareE4, chess.Quiet)
	b := chess.NewMove(chess.SquareD2, chess.SquareD4, chess.Quiet)
	results := []workerResult{
		{move: a, score: chess.ValueTBWinInMaxPly + 5, completed: 10},
		{move: b, score: 20, completed: 40}, // deeper search, but not a winning score
	}
	if got := pickBest(results, 1); got != 0 {
		t.Fatalf("pickBest = %d, want 0 (decisive win beats vote count)", got)
	}
}

func TestPickBestMultiPVBypassesVoting(t *testing.T) {
	results := []workerResult{
		{move: chess.NewMove(chess.SquareE2, chess.SquareE4, chess.Quiet), score: 0, completed: 1},
		{move: chess.NewMove(chess.SquareD2, chess.SquareD4, chess.Quiet), score: 500, completed: 20},
	}
	if got := pickBest(results, 2); got != 0 {
		t.Fatalf("pickBest with MultiPV=2 = %d, want 0 (main thread, no voting)", got)
	}
}

func TestEngineGoFindsBackRankMateInOne(t *testing.T) {
	pos, err := chess.FromFEN("6k1/5ppp/8/8/8/8/8/4R1K1 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	opts := DefaultOptions()
	opts.Threads = 2
	e := NewEngine(opts, zeroWeights(), nil)
	e.SetPosition(pos)

	best, _, score := e.Go(GoParams{Depth: 3}, nil)
	if best.From() != chess.SquareE1 || best.To() != chess.SquareE8 {
		t.Fatalf("Go best move = %v, want e1e8", best)
	}
	if score < chess.ValueMate-100 {
		t.Errorf("Go score = %d, want a near-mate score", score)
	}
}
