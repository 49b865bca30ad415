package usecase

import (
	"testing"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
)

func TestStepLegHold_SingleLegLift(t *testing.T) {
	state := legHoldState{}
	solved := make([]int, 0)

	for n := range 10 {
		ankle := &mmath.MVec2{100, 400}
		if n >= 5 {
			ankle[1] = 350
		}

		var solve bool
		state, solve = stepLegHold(state, ankle, n, 5)
		if solve {
			solved = append(solved, n)
		}
	}

	if len(solved) != 2 || solved[0] != 0 || solved[1] != 5 {
		t.Errorf("Expected [0 5], got %v", solved)
	}
	if state.PrevFrame != 5 {
		t.Errorf("Expected 5, got %d", state.PrevFrame)
	}
}

func TestStepLegHold_SmallMoves(t *testing.T) {
	state, _ := stepLegHold(legHoldState{}, &mmath.MVec2{0, 0}, 0, 5)

	// 閾値未満の移動が積み重なっても、前回計算時との比較なので途中で再計算される
	state, solve := stepLegHold(state, &mmath.MVec2{3, 0}, 1, 5)
	if solve {
		t.Errorf("Expected hold at frame 1")
	}
	state, solve = stepLegHold(state, &mmath.MVec2{6, 0}, 2, 5)
	if !solve {
		t.Errorf("Expected solve at frame 2")
	}
	if state.PrevFrame != 2 {
		t.Errorf("Expected 2, got %d", state.PrevFrame)
	}
}
