package engine

import (
	"time"

	"github.com/kestrel-engine/kestrel/internal/chess"
	"github.com/kestrel-engine/kestrel/internal/search"
)

const (
	defaultMovesToGo = 30 // assumed moves remaining when movestogo is unset
	minBranchFactor  = 2
)

// GoParams is the parsed form of a UCI `go` command, carrying only the
// fields that bear on time management; `searchmoves`/`ponder` are handled
// by internal/uci directly against the root move list.
type GoParams struct {
	WTime, BTime time.Duration
	WInc, BInc   time.Duration
	MovesToGo    int
	MoveTime     time.Duration
	Depth        int
	Nodes        uint64
	Infinite     bool
	SearchMoves  []chess.Move
}

// thinkingTime splits the remaining time t (plus increment i) over the
// assumed movesToGo remaining moves, the reference engine's thinkingTime:
// spend more early, lean on the increment later.
func thinkingTime(t, i time.Duration, movesToGo int) time.Duration {
	n := time.Duration(movesToGo)
	if tt := (t + (n-1)*i) / n; tt < t {
		return tt
	}
	return t
}

// ComputeLimits turns one side's clock state into search.Limits, mirroring
// engine/time_control.go's Start(): branchFactor grows with the number of
// pieces on the board and as fewer moves remain until the next time
// control, trimming the per-move budget accordingly. A fixed movetime
// bypasses the clock math entirely; a node or depth limit is passed through
// and applies alongside any clock budget.
func ComputeLimits(opts Options, pos *chess.Position, p GoParams) search.Limits {
	limits := search.Limits{
		Depth:     p.Depth,
		Nodes:     p.Nodes,
		Infinite:  p.Infinite,
		RootMoves: p.SearchMoves,
	}

	if p.MoveTime != 0 {
		budget := p.MoveTime - opts.MoveOverhead
		if budget < 0 {
			budget = 0
		}
		limits.Soft = budget
		limits.Hard = budget
		return limits
	}

	var otime, oinc time.Duration
	if pos.SideToMove == chess.White {
		otime, oinc = p.WTime, p.WInc
	} else {
		otime, oinc = p.BTime, p.BInc
	}
	if otime == 0 {
		// no clock was sent at all: let depth/nodes/infinite (or an
		// unbounded search, for analysis-less embedders) govern alone.
		return limits
	}

	movesToGo := p.MovesToGo
	if movesToGo <= 0 {
		movesToGo = defaultMovesToGo
	}

	numPieces := pos.Occupancy().Popcnt()
	branchFactor := time.Duration(minBranchFactor)
	for np := numPieces - 2; np > 0; np /= 6 {
		branchFactor++
	}
	for i := 4; i > 0; i /= 2 {
		if movesToGo <= i {
			branchFactor++
		}
	}

	soft := thinkingTime(otime, oinc, movesToGo) / branchFactor
	soft -= opts.MoveOverhead
	if soft < 0 {
		soft = 0
	}
	// the hard ceiling leaves enough of the clock that an overrunning
	// iteration still can't flag the game; it is generous relative to
	// soft since isLimitReached only checks it at node-count boundaries.
	hard := otime - opts.MoveOverhead
	if budget := soft * 4; budget < hard {
		hard = budget
	}
	if hard < soft {
		hard = soft
	}

	limits.Soft = soft
	limits.Hard = hard
	return limits
}
