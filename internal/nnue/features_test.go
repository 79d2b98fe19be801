package nnue

import (
	"testing"

	"github.com/kestrel-engine/kestrel/internal/chess"
)

func TestFeatureIndexDistinctForDifferentSquares(t *testing.T) {
	ksq := chess.SquareE1
	pc := chess.WhitePawn
	a := FeatureIndex(pc, chess.SquareE2, ksq, chess.White)
	b := FeatureIndex(pc, chess.SquareE4, ksq, chess.White)
	if a == b {
		t.Errorf("expected distinct feature indices for distinct piece squares, got %d twice", a)
	}
}

func TestFeatureIndexDistinctForDifferentViews(t *testing.T) {
	ksq := chess.SquareE1
	pc := chess.WhiteKnight
	psq := chess.SquareF3
	white := FeatureIndex(pc, psq, ksq, chess.White)
	black := FeatureIndex(pc, psq, ksq, chess.Black)
	if white == black {
		t.Errorf("expected distinct indices across views, got %d for both", white)
	}
}

func TestFeatureIndexBounds(t *testing.T) {
	for _, ksq := range []chess.Square{chess.SquareA1, chess.SquareH1, chess.SquareE8} {
		for pt := chess.PieceType(0); pt < chess.NumPieceTypes; pt++ {
			for _, c := range [2]chess.Color{chess.White, chess.Black} {
				pc := chess.MakePiece(c, pt)
				for sq := chess.Square(0); sq < 64; sq++ {
					for _, view := range [2]chess.Color{chess.White, chess.Black} {
						idx := FeatureIndex(pc, sq, ksq, view)
						if idx < 0 || idx >= InputSize {
							t.Fatalf("FeatureIndex out of range: %d (pc=%v psq=%v ksq=%v view=%v)", idx, pc, sq, ksq, view)
						}
					}
				}
			}
		}
	}
}

func TestKingBucketSymmetric(t *testing.T) {
	for sq := chess.Square(0); sq < 64; sq++ {
		mirrored := sq.MirrorFile()
		if KingBucket(sq) != KingBucket(mirrored) {
			t.Errorf("KingBucket(%v)=%d != KingBucket(%v)=%d, want equal for file-mirrored squares",
				sq, KingBucket(sq), mirrored, KingBucket(mirrored))
		}
	}
}

func TestNeedsRefreshOnlyForKingMoves(t *testing.T) {
	if NeedsRefresh(chess.WhitePawn, chess.SquareE2, chess.SquareE4) {
		t.Error("pawn move should never need a refresh")
	}
	if !NeedsRefresh(chess.WhiteKing, chess.SquareE1, chess.SquareE8) {
		t.Error("king move crossing ranks/buckets should need a refresh")
	}
}
