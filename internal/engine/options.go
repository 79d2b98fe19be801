// Package engine coordinates a pool of search workers, translates UCI time
// controls into search limits, and tallies a lazy-SMP vote across workers
// to settle on one best move, generalizing the reference engine's
// thread-pool/time-control design over goroutines instead of native
// threads and condition variables.
package engine

import "time"

// Options holds the UCI-tunable engine settings, grounded on zurichess's
// engine.Options and the setoption table it drives (internal/uci owns
// parsing and validation; this struct only carries the resulting values).
type Options struct {
	HashMB       int           // transposition table size in megabytes
	Threads      int           // number of search workers
	MultiPV      int           // number of root lines to report
	MoveOverhead time.Duration // time subtracted from the budget to cover move-sending latency
	SyzygyPath   string        // tablebase directory; empty disables tablebase probing
	UseNNUE      bool          // carried but never read, and not offered as a UCI option: evaluation is always NNUE
	EvalFile     string        // path to the NNUE weight file
}

// DefaultOptions matches the values internal/uci advertises for `uci`'s
// option list.
func DefaultOptions() Options {
	return Options{
		HashMB:       16,
		Threads:      1,
		MultiPV:      1,
		MoveOverhead: 10 * time.Millisecond,
		UseNNUE:      true,
	}
}
