// Package search implements iterative-deepening principal-variation
// search over the move picker's staged ordering: negamax with aspiration
// windows, the full complement of pruning and extension heuristics, and
// quiescence search, all expressed from one side-to-move's point of view
// (Score is always relative to the player about to move).
package search

import (
	"sync/atomic"
	"time"

	"github.com/kestrel-engine/kestrel/internal/chess"
	"github.com/kestrel-engine/kestrel/internal/history"
	"github.com/kestrel-engine/kestrel/internal/nnue"
	"github.com/kestrel-engine/kestrel/internal/tt"
)

// TablebaseProbe is the oracle interface search consults for WDL cutoffs.
// A nil TablebaseProbe disables tablebase probing entirely.
type TablebaseProbe interface {
	// ProbeWDL returns a score already mapped onto the mate-score scale
	// (ValueTBWin/-ValueTBWin/ValueDraw) for pos, or ok=false if pos has
	// too many men or the probe otherwise has nothing to say.
	ProbeWDL(pos *chess.Position) (score chess.Score, ok bool)
}

// Limits bounds one search: any zero-valued field is simply not checked.
type Limits struct {
	Depth     int           // hard depth ceiling, 0 = MaxPly
	Nodes     uint64        // hard node ceiling, 0 = unbounded
	Infinite  bool          // `go infinite` / analysis: ignore every other limit but Stop
	Soft      time.Duration // iterative deepening may stop after completing a depth past this
	Hard      time.Duration // a node-boundary check aborts the search past this
	RootMoves []chess.Move  // if non-empty, restricts the root move list (UCI `go searchmoves`)
}

// RootMove is one root move's search bookkeeping across iterative
// deepening: the reference engine's RootMove, generalized with a PV
// line instead of being re-derived from the triangular PV table after
// the fact.
type RootMove struct {
	Move     chess.Move
	Score    chess.Score
	PrevScore chess.Score
	SelDepth int
	PV       []chess.Move
}

// Worker runs one independent search over its own Position/history/NNUE
// state, sharing only the transposition table (and, in a multi-worker
// search, the best-move vote) with its siblings. The zero Worker is not
// usable; build one with NewWorker.
type Worker struct {
	ID int

	Pos  *chess.Position
	TT   *tt.Table
	Hist *history.Tables
	NNUE *nnue.Evaluator
	TB   TablebaseProbe

	Stop *Signal

	histStack []history.StackEntry
	ext       []stackExt
	pv        pvTable

	Limits    Limits
	startedAt time.Time
	rootPly   int

	nodes      uint64
	selDepth   int
	rootDepth  int
	checkEvery uint64

	rootMoves []RootMove
	moveNodes [64][64]uint64

	// Completed is the deepest iteration fully finished; engine.Go reads it
	// after the search for the lazy-SMP best-move vote.
	Completed int
}

// Signal is a shared, cooperatively-polled stop flag: every worker in a
// multi-threaded search polls the same Signal so `stop`/time-out aborts
// every worker's tree walk promptly, mirroring the reference engine's
// single atomic stop_flag shared across native threads.
type Signal struct{ stopped atomic.Bool }

// Stop raises the flag.
func (s *Signal) Stop() { s.stopped.Store(true) }

// Reset lowers the flag for a new search.
func (s *Signal) Reset() { s.stopped.Store(false) }

// Stopped reports whether Stop has been called.
func (s *Signal) Stopped() bool { return s.stopped.Load() }

// NewWorker builds a Worker over a shared transposition table and NNUE
// weights. Each worker owns its own Position (set via SetPosition),
// history tables, accumulator arena, and per-ply stacks.
func NewWorker(id int, table *tt.Table, weights *nnue.Weights, stop *Signal) *Worker {
	if stop == nil {
		stop = &Signal{}
	}
	return &Worker{
		ID:        id,
		TT:        table,
		Hist:      history.NewTables(),
		NNUE:      nnue.NewEvaluator(weights),
		Stop:      stop,
		histStack: make([]history.StackEntry, chess.MaxPly+1),
		ext:       newStackExt(),
		checkEvery: 2048,
	}
}

// SetPosition points the worker at pos (which the worker does not own —
// the caller retains it and must not mutate it concurrently with a
// search) and primes the NNUE accumulator for ply 0.
func (w *Worker) SetPosition(pos *chess.Position) {
	w.Pos = pos
	w.rootPly = pos.Ply()
	w.NNUE.InitRoot(pos)
}

// ply returns the current search-relative ply (0 at the root position
// SetPosition was called with).
func (w *Worker) ply() int { return w.Pos.Ply() - w.rootPly }

// Nodes returns the number of nodes visited so far in the current search.
func (w *Worker) Nodes() uint64 { return w.nodes }

// SelDepth returns the deepest ply reached along any PV line so far.
func (w *Worker) SelDepth() int { return w.selDepth }

// BestLine returns the PV found for the root position, move 0 first.
func (w *Worker) BestLine() []chess.Move { return w.pv.Line() }
