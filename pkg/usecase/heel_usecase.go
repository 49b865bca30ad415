package usecase

import (
	"math"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
)

// legHoldState 足IKを最後に計算したフレームと、その時の2D足首位置
type legHoldState struct {
	PrevFrame int
	PrevAnkle mmath.MVec2
}

// stepLegHold 2D足首が前回計算時からほとんど動いていなければ計算を省略する
// solve=false の場合、PrevFrame の計算結果をそのまま使う
func stepLegHold(state legHoldState, ankle *mmath.MVec2, n int, holdPixels float64) (legHoldState, bool) {
	if n > 0 &&
		math.Abs(ankle.GetX()-state.PrevAnkle.GetX()) < holdPixels &&
		math.Abs(ankle.GetY()-state.PrevAnkle.GetY()) < holdPixels {
		return state, false
	}

	return legHoldState{PrevFrame: n, PrevAnkle: *ankle}, true
}
