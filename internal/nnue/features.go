package nnue

import "github.com/kestrel-engine/kestrel/internal/chess"

// kingBucketGrid assigns each (rank, folded-file) pair a bucket 0..9. Files
// are folded around the center (file 3/4 boundary) before lookup, and the
// table is itself built symmetric so either half of a folded pair maps to
// the same bucket.
var kingBucketGrid = [8][4]int{
	{0, 0, 1, 1},
	{0, 0, 1, 1},
	{2, 2, 3, 3},
	{2, 2, 3, 3},
	{4, 4, 5, 5},
	{4, 4, 5, 5},
	{6, 6, 7, 7},
	{8, 8, 9, 9},
}

var kingBucketBySquare [64]int

func init() {
	for sq := 0; sq < 64; sq++ {
		rank, file := sq/8, sq%8
		f := file
		if f > 3 {
			f = 7 - f
		}
		kingBucketBySquare[sq] = kingBucketGrid[rank][f]
	}
}

// KingBucket returns the input bucket for a king standing on sq.
func KingBucket(sq chess.Square) int { return kingBucketBySquare[sq] }

// mirrorsFile reports whether view's king sits on the e-h half of the
// board, meaning feature squares for that view are mirrored horizontally.
func mirrorsFile(ksq chess.Square) bool { return ksq.File() > 3 }

// FeatureIndex computes the feature-transformer input index for a piece on
// psq, given the king square of the accumulator's view and which color the
// view belongs to.
func FeatureIndex(pc chess.Piece, psq, ksq chess.Square, view chess.Color) int {
	if mirrorsFile(ksq) {
		psq = psq.MirrorFile()
	}
	relPsq := psq.Relative(view)
	colorOffset := 0
	if pc.Color() != view {
		colorOffset = 384
	}
	bucket := KingBucket(ksq.Relative(view))
	return int(relPsq) + int(pc.Type())*64 + colorOffset + bucket*FeatureSize
}

// NeedsRefresh reports whether moving a king piece pc from `from` to `to`
// crosses a king-bucket boundary or the horizontal mirror axis for view,
// requiring a full accumulator refresh rather than an incremental update.
func NeedsRefresh(pc chess.Piece, from, to chess.Square) bool {
	if pc.Type() != chess.King {
		return false
	}
	view := pc.Color()
	if KingBucket(from.Relative(view)) != KingBucket(to.Relative(view)) {
		return true
	}
	return mirrorsFile(from) != mirrorsFile(to)
}
