// Package tt implements the shared transposition table: a fixed-size
// array of 3-entry, 32-byte buckets indexed by the high bits of a
// 128-bit hash*size multiply, storing ply-relative mate scores and an
// age/pv/bound byte per entry.
package tt

import (
	"math/bits"

	"github.com/kestrel-engine/kestrel/internal/chess"
)

// Bound classifies how an entry's score relates to the search window that
// produced it.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundLower
	BoundUpper
	BoundExact
)

const (
	ageStep = 0x8
	ageMask = 0xF8
	pvBit   = 0x4
)

// BucketSize is the number of entries probed per hash bucket.
const BucketSize = 3

// Entry is one transposition table slot. Its on-disk/in-memory layout is
// deliberately narrow (10 bytes) so three of them plus 2 bytes of bucket
// padding pack into a 32-byte, cache-line-friendly bucket.
type Entry struct {
	hash        uint16
	move        uint16
	score       int16
	eval        int16
	depth       uint8
	agePvBound  uint8
}

// Move returns the stored best move.
func (e Entry) Move() chess.Move { return chess.MoveFromRaw(e.move) }

// Depth returns the remaining search depth this entry was stored at.
func (e Entry) Depth() int { return int(e.depth) }

// Bound returns the stored bound type.
func (e Entry) Bound() Bound { return Bound(e.agePvBound & 0x3) }

// Age returns the table generation this entry was last written in.
func (e Entry) Age() uint8 { return e.agePvBound & ageMask }

// WasPV reports whether this entry was stored from a PV node.
func (e Entry) WasPV() bool { return e.agePvBound&pvBit != 0 }

// Empty reports whether this slot has never been written.
func (e Entry) Empty() bool { return e.depth == 0 && e.agePvBound == 0 }

// Score unwinds the ply-relative mate-score encoding back to a score
// relative to the root, given the current search ply. Stored scores near
// mate are shifted by ply at store time so that two different paths to
// the same mating position hash to the same TT score; this reverses that
// shift for use at the querying ply.
func (e Entry) Score(ply int) chess.Score {
	if e.score == int16(chess.ValueNone) {
		return chess.ValueNone
	}
	s := chess.Score(e.score)
	switch {
	case s >= chess.ValueTBWinInMaxPly:
		return s - chess.Score(ply)
	case s <= -chess.ValueTBWinInMaxPly:
		return s + chess.Score(ply)
	default:
		return s
	}
}

// Eval returns the stored static evaluation, or ValueNone if none was
// recorded.
func (e Entry) Eval() chess.Score { return chess.Score(e.eval) }

// storeScore applies the inverse of Entry.Score: a mate score found ply
// levels from the root is shifted by ply so it is stored relative to this
// position, which compares correctly regardless of which path reached it.
func storeScore(score chess.Score, ply int) int16 {
	if score == chess.ValueNone {
		return int16(chess.ValueNone)
	}
	switch {
	case score >= chess.ValueTBWinInMaxPly:
		return int16(score + chess.Score(ply))
	case score <= -chess.ValueTBWinInMaxPly:
		return int16(score - chess.Score(ply))
	default:
		return int16(score)
	}
}

type bucket struct {
	entries [BucketSize]Entry
	_       uint16 // pad to 32 bytes
}

// Table is the shared, fixed-size transposition table. A *Table is safe
// for concurrent Probe/Store calls from multiple search workers: entries
// are small enough that torn writes only ever corrupt a single stale
// entry, which Probe's hash-verification check discards (the standard
// "lockless" TT tolerance used by UCI engines; a corrupted read is never
// worse than a miss).
type Table struct {
	buckets []bucket
	age     uint8
}

// New allocates a table sized to approximately sizeMB megabytes, rounded
// down to a power of two number of buckets.
func New(sizeMB int) *Table {
	t := &Table{}
	t.Resize(sizeMB)
	return t
}

// Resize reallocates the table to approximately sizeMB megabytes,
// discarding all stored entries.
func (t *Table) Resize(sizeMB int) {
	bucketBytes := uint64(32)
	sizeBytes := uint64(sizeMB) << 20
	numBuckets := sizeBytes / bucketBytes
	if numBuckets == 0 {
		numBuckets = 1
	}
	pow := uint64(1)
	for pow*2 <= numBuckets {
		pow *= 2
	}
	t.buckets = make([]bucket, pow)
}

// Clear resets every entry without reallocating.
func (t *Table) Clear() {
	for i := range t.buckets {
		t.buckets[i] = bucket{}
	}
	t.age = 0
}

// NewSearch bumps the table generation so stale entries from a previous
// search age out of replacement priority without being erased.
func (t *Table) NewSearch() { t.age += ageStep }

// index computes the high 64 bits of hash*len(buckets) treated as a
// 128-bit product, mapping the full 64-bit hash space evenly onto the
// bucket array regardless of its size (avoids the power-of-two-mask bias
// of a plain `hash & mask`, while still requiring the table size be a
// power of two for Resize's allocation to stay simple).
func (t *Table) index(hash uint64) uint64 {
	hi, _ := bits.Mul64(hash, uint64(len(t.buckets)))
	return hi
}

// Probe looks up hash. It returns the matching entry and true on a hit;
// on a miss it returns the zero Entry and false.
func (t *Table) Probe(hash uint64) (Entry, bool) {
	b := &t.buckets[t.index(hash)]
	key := uint16(hash)
	for i := range b.entries {
		if !b.entries[i].Empty() && b.entries[i].hash == key {
			return b.entries[i], true
		}
	}
	return Entry{}, false
}

// Store writes an entry for hash, replacing whichever of the bucket's
// BucketSize slots is least valuable to keep: an empty slot, a slot for
// the same position (always refreshed), or else the slot with the
// lowest depth/age/bound-adjusted priority (per spec §4.5's replacement
// policy: evict the entry that is empty, has a different key, is older,
// or has shallower stored depth).
func (t *Table) Store(hash uint64, move chess.Move, score, eval chess.Score, bound Bound, depth, ply int, pv bool) {
	b := &t.buckets[t.index(hash)]
	key := uint16(hash)

	slot := 0
	worst := 1 << 30
	for i := range b.entries {
		e := &b.entries[i]
		if e.Empty() || e.hash == key {
			slot = i
			break
		}
		priority := int(e.depth) - 2*int(t.age-e.Age())/ageStep
		if e.Bound() != BoundExact {
			priority -= 2
		}
		if priority < worst {
			worst = priority
			slot = i
		}
	}

	e := &b.entries[slot]
	if move.IsNull() && e.hash == key {
		move = e.Move() // keep the previous best move if this store has none
	}

	agePvBound := t.age | uint8(bound)
	if pv {
		agePvBound |= pvBit
	}

	*e = Entry{
		hash:       key,
		depth:      uint8(depth),
		move:       move.Raw(),
		score:      storeScore(score, ply),
		eval:       int16(eval),
		agePvBound: agePvBound,
	}
}

// Hashfull estimates per-mille table occupancy by sampling the first
// 1000 buckets at the current age, matching the UCI `info hashfull`
// field's expected granularity.
func (t *Table) Hashfull() int {
	n := len(t.buckets)
	if n > 1000 {
		n = 1000
	}
	used := 0
	for i := 0; i < n; i++ {
		for j := range t.buckets[i].entries {
			e := &t.buckets[i].entries[j]
			if !e.Empty() && e.Age() == t.age {
				used++
			}
		}
	}
	return used * 1000 / (n * BucketSize)
}
