package nnue

import "github.com/kestrel-engine/kestrel/internal/chess"

// OutputBucket selects the L1/L2/L3 head for a position by piece count, as
// spec.md's forward-pass stage table describes (fewer pieces on the board
// walks toward endgame-tuned buckets).
func OutputBucket(pos *chess.Position) int {
	n := pos.Occupancy().Popcnt()
	b := (n - 2) / 4
	if b < 0 {
		b = 0
	}
	if b >= OutputBuckets {
		b = OutputBuckets - 1
	}
	return b
}

// prepL1Input turns one view's raw FTSize int16 accumulator into the
// FTSize/2 int8 values the L1 matmul consumes: CReLU-clamp to
// [0, FTQuant], pairwise-multiply the two halves, then right-shift by
// FTShift and clamp again to fit int8.
func prepL1Input(acc *[FTSize]int16, out []int8) {
	half := FTSize / 2
	for i := 0; i < half; i++ {
		a := clampFT(acc[i])
		b := clampFT(acc[i+half])
		v := (int32(a) * int32(b)) >> FTShift
		if v > 127 {
			v = 127
		}
		out[i] = int8(v)
	}
}

func clampFT(v int16) int32 {
	x := int32(v)
	if x < 0 {
		return 0
	}
	if x > FTQuant {
		return FTQuant
	}
	return x
}

// Evaluate runs the full forward pass for the side to move: feature
// transformer outputs (already held in acc) through L1/L2/L3 for the
// output bucket selected by pos, returning a centipawn score from stm's
// perspective.
func Evaluate(w *Weights, pos *chess.Position, acc *Accum) int32 {
	stm := pos.SideToMove
	bucket := OutputBucket(pos)

	half := FTSize / 2
	stmIn := make([]int8, half)
	otherIn := make([]int8, half)
	prepL1Input(acc.Data(stm), stmIn)
	prepL1Input(acc.Data(stm.Opposite()), otherIn)

	l1Out := make([]int32, L1Size)
	backend.L1Forward(stmIn, otherIn, w.L1Weights[bucket], l1Out)

	l1act := make([]float32, L1Size)
	for i := 0; i < L1Size; i++ {
		v := float32(l1Out[i])*DequantMult + w.L1Biases[bucket][i]
		l1act[i] = clampUnit(v)
	}

	l2act := make([]float32, L2Size)
	l2w := w.L2Weights[bucket]
	for n := 0; n < L2Size; n++ {
		var sum float32
		row := l2w[n*L1Size : (n+1)*L1Size]
		for i := 0; i < L1Size; i++ {
			sum += l1act[i] * row[i]
		}
		l2act[n] = clampUnit(sum + w.L2Biases[bucket][n])
	}

	var out float32 = w.L3Biases[bucket]
	l3w := w.L3Weights[bucket]
	for n := 0; n < L2Size; n++ {
		out += l2act[n] * l3w[n]
	}

	return int32(out * EvalScale)
}

func clampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
