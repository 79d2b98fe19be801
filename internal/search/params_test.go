package search

import "testing"

func TestReductionsGrowWithDepthAndMoveNumber(t *testing.T) {
	if reductions[2][1] > reductions[8][1] {
		t.Errorf("reduction at depth 2 (%d) should not exceed depth 8 (%d)", reductions[2][1], reductions[8][1])
	}
	if reductions[6][1] > reductions[6][20] {
		t.Errorf("reduction at move 1 (%d) should not exceed move 20 (%d)", reductions[6][1], reductions[6][20])
	}
	if reductions[0][5] != 0 {
		t.Errorf("reductions[0][*] should be left zeroed (depth 0 never reduces), got %d", reductions[0][5])
	}
}

func TestReductionForClampsOutOfRangeIndices(t *testing.T) {
	if got := reductionFor(len(reductions)+10, 1); got != reductions[len(reductions)-1][1] {
		t.Errorf("reductionFor clamped depth = %d, want %d", got, reductions[len(reductions)-1][1])
	}
	if got := reductionFor(5, len(reductions[5])+10); got != reductions[5][len(reductions[5])-1] {
		t.Errorf("reductionFor clamped moveNumber = %d, want %d", got, reductions[5][len(reductions[5])-1])
	}
}
