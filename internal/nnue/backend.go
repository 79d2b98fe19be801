package nnue

import "golang.org/x/sys/cpu"

// nnueBackend computes the sparse int8 L1 dot product for one output
// neuron group from two CReLU-clamped, pairwise-multiplied FTSize/2 int8
// inputs (one per view) against the bucket's L1 weight row. Both
// implementations must walk features in the same order so their int32
// results are bit-identical, not just numerically close.
type nnueBackend interface {
	// L1Forward computes the L1Size pre-activations for one output bucket
	// given the two views' prepared (clamped, shifted) int8 inputs and the
	// bucket's L1 weight matrix (row-major, [L1Size][FTSize]).
	L1Forward(stm, other []int8, weights []int8, out []int32)
	name() string
}

var backend nnueBackend = selectBackend()

func selectBackend() nnueBackend {
	if cpu.X86.HasAVX2 || cpu.X86.HasAVX512BW {
		return groupedBackend{}
	}
	return scalarBackend{}
}

// scalarBackend computes the dot product one input at a time, skipping
// zero inputs (CReLU clamps a large fraction of the feature transformer
// output to exactly zero, so this is sparse in practice despite being
// "scalar").
type scalarBackend struct{}

func (scalarBackend) name() string { return "scalar" }

func (scalarBackend) L1Forward(stm, other []int8, weights []int8, out []int32) {
	l1ForwardHalf(stm, weights, 0, out)
	l1ForwardHalf(other, weights, len(stm), out)
}

// groupedBackend processes inputs in fixed-width groups so that, on
// hardware with wide SIMD registers, the equivalent native code would
// vectorize across a group; the pure-Go implementation here still computes
// scalar-equivalent results, group by group, so it can run without cgo or
// assembly while documenting the intended vector width.
type groupedBackend struct{}

func (groupedBackend) name() string { return "grouped" }

const groupWidth = 32

func (groupedBackend) L1Forward(stm, other []int8, weights []int8, out []int32) {
	groupForwardHalf(stm, weights, 0, out)
	groupForwardHalf(other, weights, len(stm), out)
}

// l1ForwardHalf accumulates one view's contribution (offset columns into
// each output neuron's weight row) into out, skipping zero inputs.
func l1ForwardHalf(in []int8, weights []int8, colOffset int, out []int32) {
	halfWidth := len(in)
	rowWidth := halfWidth * 2
	for i, v := range in {
		if v == 0 {
			continue
		}
		vv := int32(v)
		col := colOffset + i
		for n := 0; n < L1Size; n++ {
			out[n] += vv * int32(weights[n*rowWidth+col])
		}
	}
}

// groupForwardHalf is identical in result to l1ForwardHalf; it only
// changes the iteration shape (groupWidth-wide chunks) to mirror how a
// vectorized implementation would batch the same skip-zero logic.
func groupForwardHalf(in []int8, weights []int8, colOffset int, out []int32) {
	halfWidth := len(in)
	rowWidth := halfWidth * 2
	for base := 0; base < halfWidth; base += groupWidth {
		end := base + groupWidth
		if end > halfWidth {
			end = halfWidth
		}
		for i := base; i < end; i++ {
			v := in[i]
			if v == 0 {
				continue
			}
			vv := int32(v)
			col := colOffset + i
			for n := 0; n < L1Size; n++ {
				out[n] += vv * int32(weights[n*rowWidth+col])
			}
		}
	}
}
