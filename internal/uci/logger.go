package uci

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/kestrel-engine/kestrel/internal/chess"
	"github.com/kestrel-engine/kestrel/internal/search"
)

// infoWriter buffers one `info ...` line per completed iteration before
// flushing it to the underlying writer in a single Write call, avoiding
// torn output if stdout is shared with another goroutine — the same
// buffering zurichess's uciLogger does around its PrintPV.
type infoWriter struct {
	out io.Writer
	buf bytes.Buffer
}

func newInfoWriter(out io.Writer) *infoWriter {
	return &infoWriter{out: out}
}

// reporter returns a search.Reporter that prints info to w, bound to a
// particular multiPV index (always 1 here: MultiPV>1 is accepted as an
// option but only the single best line is ever reported, since
// internal/search's Reporter only ever sees one PV per iteration).
func (iw *infoWriter) reporter() search.Reporter {
	return func(info search.Info) {
		iw.print(info)
	}
}

func (iw *infoWriter) print(info search.Info) {
	iw.buf.Reset()

	fmt.Fprintf(&iw.buf, "info depth %d seldepth %d multipv 1 ", info.Depth, info.SelDepth)

	switch {
	case info.Score >= chess.ValueMateInMaxPly:
		mateIn := (chess.ValueMate - info.Score + 1) / 2
		fmt.Fprintf(&iw.buf, "score mate %d ", mateIn)
	case info.Score <= -chess.ValueMateInMaxPly:
		mateIn := (-chess.ValueMate - info.Score) / 2
		fmt.Fprintf(&iw.buf, "score mate %d ", mateIn)
	default:
		fmt.Fprintf(&iw.buf, "score cp %d ", info.Score)
	}

	elapsed := info.Time
	if elapsed <= 0 {
		elapsed = time.Microsecond
	}
	millis := uint64(elapsed / time.Millisecond)
	nps := uint64(float64(info.Nodes) / elapsed.Seconds())
	fmt.Fprintf(&iw.buf, "nodes %d time %d nps %d", info.Nodes, millis, nps)

	if len(info.PV) > 0 {
		fmt.Fprint(&iw.buf, " pv")
		for _, m := range info.PV {
			fmt.Fprintf(&iw.buf, " %s", m.UCI())
		}
	}
	fmt.Fprintln(&iw.buf)

	iw.out.Write(iw.buf.Bytes())
}
