package search

import (
	"testing"

	"github.com/kestrel-engine/kestrel/internal/chess"
)

func TestPVTableSplicesChildLineOntoParentMove(t *testing.T) {
	var pv pvTable

	child := chess.NewMove(chess.SquareE7, chess.SquareE5, chess.Quiet)
	pv[2].moves[2] = child
	pv[2].length = 3

	root := chess.NewMove(chess.SquareE2, chess.SquareE4, chess.Quiet)
	pv.resetLength(1)
	pv.update(root, 1)

	if pv[1].length != 3 {
		t.Fatalf("pv[1].length = %d, want 3", pv[1].length)
	}
	if !pv[1].moves[1].Equal(root) {
		t.Errorf("pv[1].moves[1] = %v, want root move %v", pv[1].moves[1], root)
	}
	if !pv[1].moves[2].Equal(child) {
		t.Errorf("pv[1].moves[2] = %v, want spliced child move %v", pv[1].moves[2], child)
	}
}

func TestPVTableLineReturnsRootRow(t *testing.T) {
	var pv pvTable
	m0 := chess.NewMove(chess.SquareD2, chess.SquareD4, chess.Quiet)
	m1 := chess.NewMove(chess.SquareD7, chess.SquareD5, chess.Quiet)

	pv[1].moves[1] = m1
	pv[1].length = 2

	pv.resetLength(0)
	pv.update(m0, 0)

	line := pv.Line()
	if len(line) != 2 {
		t.Fatalf("len(Line()) = %d, want 2", len(line))
	}
	if !line[0].Equal(m0) || !line[1].Equal(m1) {
		t.Errorf("Line() = %v, want [%v %v]", line, m0, m1)
	}
}
