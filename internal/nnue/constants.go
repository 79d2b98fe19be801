// Package nnue implements the quantized neural-network evaluator: weight
// loading, per-view incremental accumulators with a king-bucket refresh
// table, and the sparse-int8/float forward pass.
//
// Architecture: (10x768->1536)x2->(16->32->1)x8, with one 768-input slice
// per king bucket. Two views (stm, !stm) each
// run their half of the feature transformer; the L1/L2/L3 stack is selected
// per output bucket by piece count on the board.
package nnue

// FeatureSize is the per-king-bucket feature count: 12 piece-color/type
// combinations times 64 squares.
const FeatureSize = 768

// InputBuckets is the number of king-position buckets each half of the
// board is divided into (spec.md's "10 buckets x 2 halves" over the
// reference tuning build's single degenerate bucket).
const InputBuckets = 10

// InputSize is the total feature-transformer input width.
const InputSize = InputBuckets * FeatureSize

// FTSize is the feature-transformer (and accumulator) width.
const FTSize = 1536

// L1Size, L2Size are the two hidden-layer widths.
const (
	L1Size = 16
	L2Size = 32
)

// OutputBuckets is the number of output heads, selected by material count.
const OutputBuckets = 8

// FTShift, FTQuant, L1Quant are feature-transformer quantization
// parameters: CReLU output is clamped to [0, FTQuant] then right-shifted by
// FTShift before entering the sparse int8 L1 matmul, whose results are
// dequantized by DequantMult.
const (
	FTShift = 9
	FTQuant = 255
	L1Quant = 64
)

// EvalScale converts the final L3 dot product into centipawns.
const EvalScale = 400

// DequantMult is the L1 dequantization multiplier: 2^FTShift / (FTQuant^2 * L1Quant).
var DequantMult = float32(1<<FTShift) / float32(FTQuant*FTQuant*L1Quant)

// WeightsLen is the number of bytes an on-disk weight blob must contain,
// computed from the architecture constants above.
const WeightsLen = 0 +
	InputSize*FTSize*2 + // ft_weights: int16
	FTSize*2 + // ft_biases: int16
	OutputBuckets*FTSize*L1Size*1 + // l1_weights: int8
	OutputBuckets*L1Size*4 + // l1_biases: float32
	OutputBuckets*L1Size*L2Size*4 + // l2_weights: float32
	OutputBuckets*L2Size*4 + // l2_biases: float32
	OutputBuckets*L2Size*4 + // l3_weights: float32
	OutputBuckets*4 // l3_biases: float32
