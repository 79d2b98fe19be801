package engine

import "github.com/kestrel-engine/kestrel/internal/chess"

// DTZResult is the distance-to-zero answer a tablebase prober gives for the
// root position: the move to play and whether it resets the fifty-move
// counter, matching the shape a Syzygy-style DTZ probe returns.
type DTZResult struct {
	Move    chess.Move
	Zeroing bool
}

// TablebaseProbe is the oracle the reference engine treats tablebase files
// as: a WDL probe and a DTZ probe. internal/search calls ProbeWDL at every
// non-root node without checking the number of men on the board itself, so
// a prober answers ok=false for positions it cannot resolve. Nothing in the
// engine calls ProbeDTZ.
type TablebaseProbe interface {
	ProbeWDL(pos *chess.Position) (score chess.Score, ok bool)
	ProbeDTZ(pos *chess.Position) (DTZResult, bool)
}

// NoopTablebase never has anything to say; it is the default prober until
// an embedder wires a real one in, per the oracle framing that treats
// tablebase support as an external collaborator rather than a module to
// implement.
type NoopTablebase struct{}

func (NoopTablebase) ProbeWDL(pos *chess.Position) (chess.Score, bool) { return 0, false }
func (NoopTablebase) ProbeDTZ(pos *chess.Position) (DTZResult, bool)   { return DTZResult{}, false }
