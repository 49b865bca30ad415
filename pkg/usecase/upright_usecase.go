package usecase

import (
	"math"

	"github.com/montanaflynn/stats"
	"golang.org/x/exp/slices"

	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mi18n"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

var uprightBones = []pmx.BoneId{
	pmx.UPPER, pmx.UPPER2, pmx.LOWER, pmx.LEG_L, pmx.KNEE_L, pmx.LEG_R, pmx.KNEE_R,
}

// SelectUpright 全身の回転が最も小さいフレームを直立に近い順に返す
func SelectUpright(state *vmd.AnimationState, config *model.Config) []int {
	frameCount := state.Channel(pmx.UPPER).Len()

	type uprightScore struct {
		index int
		angle float64
	}
	scores := make([]uprightScore, 0, frameCount)

	for n := range frameCount {
		angles := make(stats.Float64Data, 0, len(uprightBones)*3)
		for _, bone := range uprightBones {
			if !state.Has(bone) {
				continue
			}
			bf := state.Channel(bone).Get(n)
			if bf == nil {
				continue
			}
			euler := bf.Rotation.ToEulerAngles()
			for _, v := range euler {
				if !math.IsNaN(v) {
					angles = append(angles, math.Abs(v))
				}
			}
		}

		angle, err := angles.Max()
		if err != nil {
			continue
		}
		scores = append(scores, uprightScore{index: n, angle: angle})
	}

	// オイラー角の絶対最大値の昇順。同値はフレーム順
	slices.SortStableFunc(scores, func(a, b uprightScore) int {
		switch {
		case a.angle < b.angle:
			return -1
		case a.angle > b.angle:
			return 1
		}
		return 0
	})

	if len(scores) > config.UprightCandidates {
		scores = scores[:config.UprightCandidates]
	}

	indexes := make([]int, 0, config.UprightCount)
	for _, score := range scores {
		if isNearIndex(indexes, score.index, config.UprightSpacing) {
			continue
		}
		indexes = append(indexes, score.index)
		if len(indexes) >= config.UprightCount {
			break
		}
	}

	// フレームが1つもない場合は先頭を直立とみなす
	if len(indexes) == 0 {
		indexes = append(indexes, 0)
	}

	mlog.I(mi18n.T("直立フレーム", map[string]interface{}{"Indexes": indexes}))

	return indexes
}

func isNearIndex(indexes []int, n, spacing int) bool {
	for _, i := range indexes {
		if abs(i-n) < spacing {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
