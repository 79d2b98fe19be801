package nnue

import "github.com/kestrel-engine/kestrel/internal/chess"

// DirtyPiece records one piece's board-square change for a ply. The
// forward pass does not read these records: accumulators are brought up to
// date eagerly by Evaluator.Put/Remove/Move.
type DirtyPiece struct {
	Piece chess.Piece
	From  chess.Square // SquareNone if the piece was added (promotion/unused)
	To    chess.Square // SquareNone if the piece was removed (capture)
}

// maxDirtyPieces bounds a single move's worth of feature deltas: a normal
// move touches one piece, a capture two, and castling the rook too; four
// covers every case including captures that also move a rook.
const maxDirtyPieces = 4

// Accum is the per-ply, per-view feature-transformer activation.
type Accum struct {
	data        [2][FTSize]int16
	initialized [2]bool
	needsRefresh [2]bool

	kingSq [2]chess.Square

	dirty    [maxDirtyPieces]DirtyPiece
	numDirty int
}

// Reset clears an Accum for reuse at a new ply (called once per search node
// entry from the arena below, never allocating).
func (a *Accum) Reset() {
	a.numDirty = 0
	a.initialized[chess.White] = false
	a.initialized[chess.Black] = false
	a.needsRefresh[chess.White] = false
	a.needsRefresh[chess.Black] = false
	a.kingSq[chess.White] = chess.SquareNone
	a.kingSq[chess.Black] = chess.SquareNone
}

// AddDirty records a piece delta for this ply. from/to are SquareNone for
// an added/removed piece respectively.
func (a *Accum) AddDirty(pc chess.Piece, from, to chess.Square) {
	a.dirty[a.numDirty] = DirtyPiece{Piece: pc, From: from, To: to}
	a.numDirty++
}

// SetKings records both kings' squares for this ply.
func (a *Accum) SetKings(white, black chess.Square) {
	a.kingSq[chess.White] = white
	a.kingSq[chess.Black] = black
}

func (a *Accum) markRefresh(view chess.Color) { a.needsRefresh[view] = true }

// Data returns the view's raw FTSize activations.
func (a *Accum) Data(view chess.Color) *[FTSize]int16 { return &a.data[view] }

// IsInitialized reports whether view's activations are already current.
func (a *Accum) IsInitialized(view chess.Color) bool { return a.initialized[view] }

func (a *Accum) setInitialized(view chess.Color) { a.initialized[view] = true }

// AccumArena is a contiguous, never-reallocated stack of Accum frames
// indexed by ply, per the arena-backed accumulator design note.
type AccumArena struct {
	frames [chess.MaxPly + 1]Accum
	table  RefreshTable
}

// NewAccumArena allocates one arena. Callers own it for the lifetime of a
// single worker's search.
func NewAccumArena() *AccumArena { return &AccumArena{} }

// Frame returns the Accum for ply.
func (ar *AccumArena) Frame(ply int) *Accum { return &ar.frames[ply] }

// RefreshTable returns the king-bucket refresh cache backing this arena.
func (ar *AccumArena) RefreshTable() *RefreshTable { return &ar.table }

// refreshEntry memoizes a fully-populated accumulator for one (color,
// king-bucket, mirror-half) cell, along with the piece bitboards it was
// built from ("idea from koivisto"). A refresh reuses the entry only when
// every piece bitboard matches exactly; any difference in piece placement
// rebuilds the accumulator from the whole feature list.
type refreshEntry struct {
	accum   [FTSize]int16
	pieceBB [2][chess.NumPieceTypes]chess.Bitboard
	valid   bool
}

// RefreshTable holds one refreshEntry per (view, king bucket, mirror half).
type RefreshTable struct {
	entries [2][InputBuckets * 2]refreshEntry
}

func refreshSlot(ksq chess.Square, view chess.Color) int {
	half := 0
	if mirrorsFile(ksq) {
		half = 1
	}
	return KingBucket(ksq.Relative(view))*2 + half
}
