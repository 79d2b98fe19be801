// Package uci implements the UCI protocol
// (http://wbec-ridderkerk.nl/html/UCIProtocol.html) on top of
// internal/engine, the same command-dispatch shape zurichess's uci.go
// uses: commands that require the engine to be idle wait on a buffered
// "busy" channel, and `go` hands off to a goroutine that prints
// `bestmove` once the search actually stops.
package uci

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kestrel-engine/kestrel/internal/bench"
	"github.com/kestrel-engine/kestrel/internal/chess"
	"github.com/kestrel-engine/kestrel/internal/engine"
	"github.com/kestrel-engine/kestrel/internal/nnue"
)

// ErrQuit is returned by Execute for the `quit` command; the caller's read
// loop treats it as the (non-error) signal to exit.
var ErrQuit = errors.New("quit")

const (
	engineName   = "Kestrel"
	engineAuthor = "Kestrel contributors"
)

var defaultOptions = engine.DefaultOptions()

// Server dispatches one UCI session's commands against a single
// internal/engine.Engine.
type Server struct {
	Out io.Writer

	eng  *engine.Engine
	opts engine.Options
	info *infoWriter

	pos       *chess.Position
	busy      chan struct{} // buffered 1; filled while a search is in flight
	predicted uint64        // FEN hash predicted two plies ahead, for a future ponder move
}

// NewServer builds a Server around already-loaded NNUE weights. A nil tb
// installs engine.NoopTablebase.
func NewServer(out io.Writer, weights *nnue.Weights, tb engine.TablebaseProbe) *Server {
	s := &Server{
		Out:  out,
		opts: defaultOptions,
		info: newInfoWriter(out),
		pos:  chess.NewPosition(),
		busy: make(chan struct{}, 1),
	}
	s.eng = engine.NewEngine(s.opts, weights, tb)
	s.eng.SetPosition(s.pos)
	return s
}

var reCmd = regexp.MustCompile(`^[[:word:]]+\b`)

// Execute runs one UCI command line. ErrQuit signals the caller to stop
// reading further input; any other non-nil error is a malformed or
// rejected command and should be surfaced, not treated as fatal.
func (s *Server) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	cmd := reCmd.FindString(line)
	if cmd == "" {
		return fmt.Errorf("invalid command line")
	}

	// These do not require the engine to be idle.
	switch cmd {
	case "isready":
		fmt.Fprintln(s.Out, "readyok")
		return nil
	case "quit":
		return ErrQuit
	case "stop":
		s.eng.Stop()
		s.waitIdle()
		return nil
	case "uci":
		return s.uci()
	case "ponderhit":
		// pondering is modeled as an unbounded search (see goCmd); there is
		// nothing to switch over to, so this is purely an acknowledgment.
		return nil
	case "d":
		fmt.Fprintln(s.Out, s.pos.FEN())
		return nil
	}

	// Everything else waits for the engine to go idle first.
	s.waitIdle()

	switch cmd {
	case "ucinewgame":
		s.eng.NewGame()
		return nil
	case "position":
		return s.position(line)
	case "go":
		return s.goCmd(line)
	case "setoption":
		return s.setoption(line)
	case "bench":
		return s.benchCmd(line)
	case "perft":
		return s.perftCmd(line)
	default:
		return fmt.Errorf("unhandled command %s", cmd)
	}
}

func (s *Server) waitIdle() {
	s.busy <- struct{}{}
	<-s.busy
}

func (s *Server) uci() error {
	fmt.Fprintf(s.Out, "id name %s\n", engineName)
	fmt.Fprintf(s.Out, "id author %s\n", engineAuthor)
	fmt.Fprintln(s.Out)
	s.printOptions()
	fmt.Fprintln(s.Out, "uciok")
	return nil
}

func (s *Server) position(line string) error {
	args := strings.Fields(line)[1:]
	if len(args) == 0 {
		return fmt.Errorf("expected argument for 'position'")
	}

	var (
		pos *chess.Position
		err error
		i   int
	)
	switch args[0] {
	case "startpos":
		pos, err = chess.FromFEN(chess.FENStartPos)
		i = 1
	case "fen":
		i = 1
		for i < len(args) && args[i] != "moves" {
			i++
		}
		pos, err = chess.FromFEN(strings.Join(args[1:i], " "))
	default:
		return fmt.Errorf("unknown position command: %s", args[0])
	}
	if err != nil {
		return err
	}

	if i < len(args) {
		if args[i] != "moves" {
			return fmt.Errorf("expected 'moves', got %q", args[i])
		}
		for _, tok := range args[i+1:] {
			m, err := chess.ParseUCIMove(pos, tok)
			if err != nil {
				return err
			}
			pos.MakeMove(m)
		}
	}

	s.pos = pos
	s.eng.SetPosition(pos)
	return nil
}

var validGoKeywords = map[string]bool{
	"searchmoves": true,
	"ponder":      true,
	"wtime":       true,
	"btime":       true,
	"winc":        true,
	"binc":        true,
	"movestogo":   true,
	"depth":       true,
	"nodes":       true,
	"mate":        true,
	"movetime":    true,
	"infinite":    true,
}

func (s *Server) goCmd(line string) error {
	params := engine.GoParams{}
	ponder := false

	args := strings.Fields(line)[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "searchmoves":
			for j := i + 1; j < len(args) && !validGoKeywords[args[j]]; j++ {
				m, err := chess.ParseUCIMove(s.pos, args[j])
				if err != nil {
					return err
				}
				params.SearchMoves = append(params.SearchMoves, m)
				i++
			}
		case "ponder":
			ponder = true
		case "infinite":
			params.Infinite = true
		case "wtime":
			i++
			v, _ := strconv.Atoi(args[i])
			params.WTime = time.Duration(v) * time.Millisecond
		case "btime":
			i++
			v, _ := strconv.Atoi(args[i])
			params.BTime = time.Duration(v) * time.Millisecond
		case "winc":
			i++
			v, _ := strconv.Atoi(args[i])
			params.WInc = time.Duration(v) * time.Millisecond
		case "binc":
			i++
			v, _ := strconv.Atoi(args[i])
			params.BInc = time.Duration(v) * time.Millisecond
		case "movestogo":
			i++
			v, _ := strconv.Atoi(args[i])
			params.MovesToGo = v
		case "movetime":
			i++
			v, _ := strconv.Atoi(args[i])
			params.MoveTime = time.Duration(v) * time.Millisecond
		case "depth":
			i++
			v, _ := strconv.Atoi(args[i])
			params.Depth = v
		case "nodes":
			i++
			v, _ := strconv.Atoi(args[i])
			params.Nodes = uint64(v)
		case "mate":
			i++ // mate-in-N search is not modeled distinctly from depth; ignored
		default:
			return fmt.Errorf("invalid go command %s", args[i])
		}
	}

	if ponder {
		// pondering is an unbounded search from the engine's point of
		// view: it only ever stops on `stop`, since ponderhit has nothing
		// to hand off to (see Execute's ponderhit case).
		params.Infinite = true
	}

	s.busy <- struct{}{}
	go s.play(params)
	return nil
}

func (s *Server) play(params engine.GoParams) {
	defer func() { <-s.busy }()

	best, ponderMove, _ := s.eng.Go(params, s.info.reporter())

	if best.IsNull() {
		fmt.Fprintln(s.Out, "bestmove (none)")
		return
	}
	if !ponderMove.IsNull() {
		fmt.Fprintf(s.Out, "bestmove %s ponder %s\n", best.UCI(), ponderMove.UCI())
	} else {
		fmt.Fprintf(s.Out, "bestmove %s\n", best.UCI())
	}
}

// perftCmd counts leaf nodes at the requested depth from the current
// position, split by the root move that reaches them, the same
// move-generator regression check the reference engine ships as a
// standalone `perft` binary instead of a UCI command.
func (s *Server) perftCmd(line string) error {
	fields := strings.Fields(line)
	depth := 5
	if len(fields) > 1 {
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return err
		}
		depth = v
	}
	if depth < 1 {
		return fmt.Errorf("perft depth must be positive")
	}

	var total uint64
	for _, m := range s.pos.GenerateMoves(chess.GenLegal, chess.NewMoveBuffer()) {
		s.pos.MakeMove(m)
		nodes := chess.Perft(s.pos, depth-1)
		s.pos.UndoMove()

		fmt.Fprintf(s.Out, "%s: %d\n", m.UCI(), nodes)
		total += nodes
	}
	fmt.Fprintf(s.Out, "\nNodes searched: %d\n", total)
	return nil
}

func (s *Server) benchCmd(line string) error {
	depth := 13
	if fields := strings.Fields(line); len(fields) > 1 {
		if v, err := strconv.Atoi(fields[1]); err == nil {
			depth = v
		}
	}

	nodes, elapsed := bench.Run(s.eng, depth, s.Out)
	nps := uint64(0)
	if elapsed > 0 {
		nps = uint64(float64(nodes) / elapsed.Seconds())
	}
	fmt.Fprintf(s.Out, "%d nodes %d nps\n", nodes, nps)

	s.eng.SetPosition(s.pos)
	return nil
}
