package uci

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	maxHashMB     = 65536
	maxThreads    = 256
	maxMultiPV    = 16
	maxMoveOvhead = 5000
)

// printOptions writes the `option name ...` lines the `uci` command
// answers with, grounded on zurichess's uci() handler extended with the
// Threads/MoveOverhead/SyzygyPath entries the teacher never needed.
func (s *Server) printOptions() {
	fmt.Fprintf(s.Out, "option name Hash type spin default %d min 1 max %d\n", defaultOptions.HashMB, maxHashMB)
	fmt.Fprintf(s.Out, "option name Threads type spin default %d min 1 max %d\n", defaultOptions.Threads, maxThreads)
	fmt.Fprintf(s.Out, "option name MultiPV type spin default %d min 1 max %d\n", defaultOptions.MultiPV, maxMultiPV)
	fmt.Fprintf(s.Out, "option name Move Overhead type spin default %d min 0 max %d\n", defaultOptions.MoveOverhead.Milliseconds(), maxMoveOvhead)
	fmt.Fprintf(s.Out, "option name SyzygyPath type string default <empty>\n")
	fmt.Fprintf(s.Out, "option name Ponder type check default true\n")
	fmt.Fprintf(s.Out, "option name Clear Hash type button\n")
}

var reOption = regexp.MustCompile(`^setoption\s+name\s+(.+?)(\s+value\s+(.*))?$`)

func (s *Server) setoption(line string) error {
	m := reOption.FindStringSubmatch(line)
	if m == nil {
		return fmt.Errorf("invalid setoption arguments")
	}
	name, hasValue, value := m[1], m[2] != "", m[3]

	if name == "Clear Hash" {
		s.eng.NewGame()
		return nil
	}
	if !hasValue {
		return fmt.Errorf("missing setoption value for %q", name)
	}

	opts := s.opts
	switch name {
	case "Hash":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if n < 1 || n > maxHashMB {
			return fmt.Errorf("Hash must be between 1 and %d", maxHashMB)
		}
		opts.HashMB = n
	case "Threads":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if n < 1 || n > maxThreads {
			return fmt.Errorf("Threads must be between 1 and %d", maxThreads)
		}
		opts.Threads = n
	case "MultiPV":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if n < 1 || n > maxMultiPV {
			return fmt.Errorf("MultiPV must be between 1 and %d", maxMultiPV)
		}
		opts.MultiPV = n
	case "Move Overhead":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		opts.MoveOverhead = time.Duration(n) * time.Millisecond
	case "SyzygyPath":
		opts.SyzygyPath = value
	case "Ponder":
		return nil // no internal state: pondering is driven by the `go ponder` caller
	default:
		return fmt.Errorf("unhandled option %q", name)
	}

	s.opts = opts
	s.eng.SetOptions(opts)
	return nil
}
