package tt

import (
	"testing"

	"github.com/kestrel-engine/kestrel/internal/chess"
)

func TestStoreProbeRoundTrip(t *testing.T) {
	table := New(1)
	hash := uint64(0x1234567890abcdef)
	move := chess.NewMove(chess.SquareE2, chess.SquareE4, chess.Quiet)

	table.Store(hash, move, 57, 42, BoundExact, 10, 3, true)

	e, ok := table.Probe(hash)
	if !ok {
		t.Fatal("expected hit after store")
	}
	if !e.Move().Equal(move) {
		t.Errorf("Move() = %v, want %v", e.Move(), move)
	}
	if e.Depth() != 10 {
		t.Errorf("Depth() = %d, want 10", e.Depth())
	}
	if e.Bound() != BoundExact {
		t.Errorf("Bound() = %v, want BoundExact", e.Bound())
	}
	if !e.WasPV() {
		t.Error("expected WasPV() true")
	}
	if got := e.Score(3); got != 57 {
		t.Errorf("Score(3) = %d, want 57", got)
	}
}

func TestProbeMissOnDifferentHash(t *testing.T) {
	table := New(1)
	table.Store(0xaaaa, chess.NullMove, 0, 0, BoundExact, 5, 0, false)
	if _, ok := table.Probe(0xbbbb); ok {
		t.Error("expected miss for unstored hash")
	}
}

func TestMateScorePlyRelativeRoundTrip(t *testing.T) {
	table := New(1)
	hash := uint64(0xdeadbeef)
	mateScore := chess.ValueMate - 5 // mate in 3 (5 plies from the root), stored at ply 5

	table.Store(hash, chess.NullMove, mateScore, chess.ValueNone, BoundExact, 3, 5, false)

	e, ok := table.Probe(hash)
	if !ok {
		t.Fatal("expected hit")
	}
	if got := e.Score(5); got != mateScore {
		t.Errorf("Score(5) = %d, want %d (ply-relative round trip)", got, mateScore)
	}
}

func TestClearEmptiesTable(t *testing.T) {
	table := New(1)
	table.Store(1, chess.NullMove, 10, 10, BoundExact, 1, 0, false)
	table.Clear()
	if _, ok := table.Probe(1); ok {
		t.Error("expected miss after Clear")
	}
}

func TestResizeIsPowerOfTwoBuckets(t *testing.T) {
	table := New(1)
	n := len(table.buckets)
	if n&(n-1) != 0 {
		t.Errorf("bucket count %d is not a power of two", n)
	}
}

// TestStoreEvictsShallowestOnFullBucket forces three distinct keys into the
// same single-bucket table and confirms the fourth store evicts the
// shallowest entry rather than the deepest, guarding against a replacement
// policy that was inverted in an earlier revision.
func TestStoreEvictsShallowestOnFullBucket(t *testing.T) {
	table := &Table{buckets: make([]bucket, 1)}

	// Three distinct hashes whose low 16 bits (the stored key) also
	// differ, occupying all BucketSize slots of the table's only bucket.
	const h1, h2, h3, h4 = 0x1111, 0x2222, 0x3333, 0x4444
	table.Store(h1, chess.NullMove, 0, 0, BoundExact, 1, 0, false) // shallowest
	table.Store(h2, chess.NullMove, 0, 0, BoundExact, 8, 0, false)
	table.Store(h3, chess.NullMove, 0, 0, BoundExact, 12, 0, false)

	table.Store(h4, chess.NullMove, 0, 0, BoundExact, 10, 0, false)

	if _, ok := table.Probe(h1); ok {
		t.Error("expected the shallowest entry (depth 1) to be evicted, but it is still present")
	}
	if _, ok := table.Probe(h2); !ok {
		t.Error("expected the depth-8 entry to survive eviction")
	}
	if _, ok := table.Probe(h3); !ok {
		t.Error("expected the depth-12 entry to survive eviction")
	}
	if _, ok := table.Probe(h4); !ok {
		t.Error("expected the newly stored entry to be present")
	}
}

func TestHashfullZeroOnEmptyTable(t *testing.T) {
	table := New(1)
	if h := table.Hashfull(); h != 0 {
		t.Errorf("Hashfull() on empty table = %d, want 0", h)
	}
}
