package engine

import (
	"github.com/op/go-logging"
	"golang.org/x/sync/errgroup"

	"github.com/kestrel-engine/kestrel/internal/chess"
	"github.com/kestrel-engine/kestrel/internal/nnue"
	"github.com/kestrel-engine/kestrel/internal/search"
	"github.com/kestrel-engine/kestrel/internal/tt"
)

var log = logging.MustGetLogger("engine")

// Engine owns the shared transposition table and NNUE weights and drives a
// pool of search.Worker goroutines over them, generalizing the reference
// engine's ThreadPool: no worker goroutine exists between searches (each Go
// call starts one errgroup goroutine per worker and waits for all of them,
// so nothing blocks on a condition variable), and the single shared atomic
// stop flag is search.Signal instead of std::atomic<bool>.
type Engine struct {
	Options Options
	TB      TablebaseProbe

	tt      *tt.Table
	weights *nnue.Weights
	stop    *search.Signal
	workers []*search.Worker

	rootPos *chess.Position
}

// NewEngine builds an Engine with opts.Threads workers sharing one
// transposition table sized at opts.HashMB. weights must already be loaded
// (nnue.Load); a nil tb installs NoopTablebase.
func NewEngine(opts Options, weights *nnue.Weights, tb TablebaseProbe) *Engine {
	if tb == nil {
		tb = NoopTablebase{}
	}
	e := &Engine{
		Options: opts,
		TB:      tb,
		tt:      tt.New(opts.HashMB),
		weights: weights,
		stop:    &search.Signal{},
	}
	e.rebuildWorkers()
	return e
}

func (e *Engine) rebuildWorkers() {
	n := e.Options.Threads
	if n < 1 {
		n = 1
	}
	e.workers = make([]*search.Worker, n)
	for i := range e.workers {
		w := search.NewWorker(i, e.tt, e.weights, e.stop)
		w.TB = e.TB
		e.workers[i] = w
	}
}

// SetOptions applies a new option set, resizing the hash table and/or
// rebuilding the worker pool only when those specific values changed.
func (e *Engine) SetOptions(opts Options) {
	resize := opts.HashMB != e.Options.HashMB
	rebuild := opts.Threads != e.Options.Threads
	e.Options = opts
	if resize {
		e.tt.Resize(opts.HashMB)
	}
	if rebuild {
		e.rebuildWorkers()
	}
}

// NewGame clears the transposition table and every worker's history state,
// mirroring zurichess's GlobalHashTable.Clear() on `ucinewgame` generalized
// to also drop stale killer/history/correction entries per worker.
func (e *Engine) NewGame() {
	e.tt.Clear()
	e.rebuildWorkers()
}

// SetPosition records the root position workers will clone from on the
// next Go call. The Engine does not mutate pos.
func (e *Engine) SetPosition(pos *chess.Position) { e.rootPos = pos }

// Stop raises the shared stop signal; every worker's search aborts at its
// next node-count checkpoint.
func (e *Engine) Stop() { e.stop.Stop() }

// Hashfull reports per-mille transposition table occupancy, sampled from
// the shared table (any worker's view is equivalent).
func (e *Engine) Hashfull() int { return e.tt.Hashfull() }

// TotalNodes sums every worker's node count from the most recent Go call,
// the reference engine's ThreadPool::total_nodes().
func (e *Engine) TotalNodes() uint64 {
	var n uint64
	for _, w := range e.workers {
		n += w.Nodes()
	}
	return n
}

// workerResult is one worker's root-move outcome at the point the search
// stopped: its self-reported best move/score and how many plies it
// finished searching, the inputs threads.cpp's pick_best vote needs.
type workerResult struct {
	move      chess.Move
	score     chess.Score
	completed int
}

func isWin(s chess.Score) bool      { return s >= chess.ValueTBWinInMaxPly }
func isLoss(s chess.Score) bool     { return s <= chess.ValueTBLossInMaxPly }
func isDecisive(s chess.Score) bool { return isWin(s) || isLoss(s) }

// pickBest picks the winning worker index by the reference engine's
// lazy-SMP vote: a thread's (score, completed depth) pair accrues votes for
// its chosen move relative to the weakest score seen, and a thread wins
// outright if it found a better score than a decisive leader, or any
// winning score while the leader's score is not decisive.
func pickBest(results []workerResult, multiPV int) int {
	if len(results) == 1 || multiPV != 1 {
		return 0
	}

	minScore := chess.ValueNone
	any := false
	for _, r := range results {
		if r.completed == 0 {
			continue
		}
		any = true
		if r.score < minScore {
			minScore = r.score
		}
	}
	if !any {
		return 0
	}

	votes := make(map[uint16]int, len(results))
	for _, r := range results {
		if r.completed == 0 {
			continue
		}
		votes[r.move.Raw()] += int(r.score-minScore+10) * r.completed
	}

	best := 0
	for i, r := range results {
		if r.completed == 0 {
			continue
		}
		bestR := results[best]
		switch {
		case isDecisive(bestR.score):
			if r.score > bestR.score {
				best = i
			}
		case isWin(r.score):
			best = i
		case !isLoss(r.score) && votes[r.move.Raw()] > votes[bestR.move.Raw()]:
			best = i
		}
	}
	return best
}

// Go runs a search to limits derived from params and returns the move to
// play and, if the winning worker's PV was at least two moves deep, the
// move to ponder on. report is called only from the main worker (index 0),
// mirroring the reference engine's helper threads searching silently.
func (e *Engine) Go(params GoParams, report search.Reporter) (best, ponder chess.Move, score chess.Score) {
	if e.rootPos == nil {
		e.SetPosition(chess.NewPosition())
	}
	limits := ComputeLimits(e.Options, e.rootPos, params)
	e.stop.Reset()
	e.tt.NewSearch()

	helperLimits := limits
	helperLimits.Soft = 0
	helperLimits.Hard = 0
	helperLimits.Infinite = true

	results := make([]workerResult, len(e.workers))

	var g errgroup.Group
	for i, w := range e.workers {
		i, w := i, w
		lims := limits
		if i != 0 {
			lims = helperLimits
		}
		w.SetPosition(e.rootPos.Clone())

		g.Go(func() error {
			var rep search.Reporter
			if w.ID == 0 {
				rep = report
			}
			m, s := w.Iterate(lims, rep)
			results[i] = workerResult{move: m, score: s, completed: w.Completed}
			if w.ID == 0 {
				// the main worker's own soft-time/depth ceiling ended the
				// search; wake every helper still polling the shared flag.
				e.stop.Stop()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warningf("search worker error: %v", err)
	}

	winner := pickBest(results, e.Options.MultiPV)
	r := results[winner]
	best, score = r.move, r.score

	if line := e.workers[winner].BestLine(); len(line) >= 2 {
		ponder = line[1]
	}
	return best, ponder, score
}
