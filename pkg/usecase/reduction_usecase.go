package usecase

import (
	"math"
	"sync"

	"github.com/samber/lo"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mi18n"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
	"github.com/miu200521358/pos2vmd/pkg/utils"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

// decimateConfig 間引きの閾値
type decimateConfig struct {
	rotation    float64
	centerMove  float64
	centerSlope float64
	ikMove      float64
	ikSlope     float64
}

func newDecimateConfig(config *model.Config) decimateConfig {
	return decimateConfig{
		rotation:    config.RotationDecimation,
		centerMove:  config.CenterDecimation,
		centerSlope: config.CenterSlopeAngle,
		ikMove:      config.IkDecimation,
		ikSlope:     config.IkSlopeAngle,
	}
}

// 体幹は隣のフレームでも残せる
func isTorsoBone(bone pmx.BoneId) bool {
	return bone == pmx.UPPER || bone == pmx.LOWER
}

func isOverThreshold(rotation *mmath.MQuaternion, threshold float64) bool {
	euler := rotation.ToEulerAngles()
	return math.Abs(euler.GetX()) >= threshold ||
		math.Abs(euler.GetY()) >= threshold ||
		math.Abs(euler.GetZ()) >= threshold
}

// isRotationRetained 直前に残した回転からの差分が閾値を超えるか、次のフレームで超える場合に残す
// 体幹以外は直前に残したフレームの隣は残さない
func isRotationRetained(rotations []mmath.MQuaternion, n, lastFit int, isTorso bool, threshold float64) bool {
	prev := &rotations[lastFit]
	now := &rotations[n]
	isSpaced := lastFit+1 < n

	diff := prev.Inverted().Muled(now)
	if isOverThreshold(diff, threshold) {
		if isTorso || isSpaced {
			return true
		}
	} else if diff.ToEulerAngles().GetY() < 0 && math.Abs(now.ToEulerAngles().GetY()) >= 90 {
		// 真横を越えて回り込んだ
		if isTorso {
			return true
		}
	}

	if n+1 < len(rotations) {
		nextDiff := now.Inverted().Muled(&rotations[n+1])
		if isOverThreshold(nextDiff, threshold) && (isTorso || isSpaced) {
			return true
		}
	}

	return false
}

// decimateRotation グループ内のどれかのボーンが残す条件を満たせば、全ボーンのキーフレームを残す
func decimateRotation(bones []pmx.BoneId, rotations [][]mmath.MQuaternion, threshold float64) *decimationFit {
	fit := newDecimationFit()
	if len(rotations) == 0 {
		return fit
	}

	for n := 1; n < len(rotations[0]); n++ {
		for i, bone := range bones {
			if isRotationRetained(rotations[i], n, fit.last(), isTorsoBone(bone), threshold) {
				mlog.V("[%s][%d] rotated", bone, n)
				fit.append(n)
				break
			}
		}
	}

	return fit
}

type decimateKind int

const (
	decimateKindRotation decimateKind = iota
	decimateKindCenter
	decimateKindLegIk
)

// decimateGroup キーフレームを揃えて間引くボーンの組
type decimateGroup struct {
	Kind  decimateKind
	Bones []pmx.BoneId
}

// decimateGroups 間引き対象のボーン組。alignment=false の場合はボーンごと
func decimateGroups(state *vmd.AnimationState, alignment bool) []*decimateGroup {
	groups := []*decimateGroup{
		{Kind: decimateKindCenter, Bones: []pmx.BoneId{pmx.CENTER, pmx.GROOVE}},
	}

	if state.Has(pmx.LEG_IK_L) || state.Has(pmx.LEG_IK_R) {
		for _, direction := range []pmx.BoneDirection{pmx.BONE_DIRECTION_LEFT, pmx.BONE_DIRECTION_RIGHT} {
			if alignment {
				groups = append(groups, &decimateGroup{
					Kind: decimateKindLegIk, Bones: []pmx.BoneId{pmx.LEG_IK.By(direction), pmx.LEG.By(direction)}})
			} else {
				groups = append(groups,
					&decimateGroup{Kind: decimateKindLegIk, Bones: []pmx.BoneId{pmx.LEG_IK.By(direction)}},
					&decimateGroup{Kind: decimateKindRotation, Bones: []pmx.BoneId{pmx.LEG.By(direction)}})
			}
		}
	} else {
		for _, direction := range []pmx.BoneDirection{pmx.BONE_DIRECTION_LEFT, pmx.BONE_DIRECTION_RIGHT} {
			groups = append(groups, rotationGroups(alignment, pmx.LEG.By(direction), pmx.KNEE.By(direction))...)
		}
	}

	groups = append(groups, rotationGroups(alignment, pmx.UPPER, pmx.UPPER2, pmx.LOWER)...)
	groups = append(groups, rotationGroups(alignment, pmx.NECK, pmx.HEAD)...)
	groups = append(groups, rotationGroups(alignment, pmx.ELBOW_L, pmx.ARM_L, pmx.SHOULDER_L)...)
	groups = append(groups, rotationGroups(alignment, pmx.ELBOW_R, pmx.ARM_R, pmx.SHOULDER_R)...)

	// キーフレームのあるボーンだけ
	return lo.FilterMap(groups, func(group *decimateGroup, _ int) (*decimateGroup, bool) {
		group.Bones = lo.Filter(group.Bones, func(bone pmx.BoneId, _ int) bool {
			return state.Has(bone)
		})
		return group, len(group.Bones) > 0
	})
}

func rotationGroups(alignment bool, bones ...pmx.BoneId) []*decimateGroup {
	if alignment {
		return []*decimateGroup{{Kind: decimateKindRotation, Bones: bones}}
	}
	return lo.Map(bones, func(bone pmx.BoneId, _ int) *decimateGroup {
		return &decimateGroup{Kind: decimateKindRotation, Bones: []pmx.BoneId{bone}}
	})
}

// fit 組ごとの残すキーフレーム。閾値が0の種類は間引かない(nil)
func (g *decimateGroup) fit(state *vmd.AnimationState, frameCount int, config decimateConfig) *decimationFit {
	switch g.Kind {
	case decimateKindCenter:
		if config.centerMove <= 0 || !state.Has(pmx.CENTER) {
			return nil
		}
		var groove []mmath.MVec3
		if state.Has(pmx.GROOVE) {
			groove = channelPositions(state.Channel(pmx.GROOVE), frameCount)
		}
		return decimateCenter(channelPositions(state.Channel(pmx.CENTER), frameCount), groove, config)
	case decimateKindLegIk:
		if config.ikMove <= 0 {
			return nil
		}
		ikChannel := state.Channel(g.Bones[0])
		followers := lo.Map(g.Bones[1:], func(bone pmx.BoneId, _ int) []mmath.MQuaternion {
			return channelRotations(state.Channel(bone), frameCount)
		})
		return decimateLegIk(
			channelPositions(ikChannel, frameCount), channelRotations(ikChannel, frameCount), followers, config)
	default:
		if config.rotation <= 0 {
			return nil
		}
		rotations := lo.Map(g.Bones, func(bone pmx.BoneId, _ int) []mmath.MQuaternion {
			return channelRotations(state.Channel(bone), frameCount)
		})
		return decimateRotation(g.Bones, rotations, config.rotation)
	}
}

// Decimate キーフレームを間引いたモーションを返す。元のモーションは変更しない
func Decimate(state *vmd.AnimationState, config *model.Config) *vmd.AnimationState {
	mlog.I("Start: Decimate =============================")

	decimated := state.Copy()
	frameCount := state.FrameCount()
	groups := decimateGroups(decimated, config.Alignment)
	dc := newDecimateConfig(config)

	bar := utils.NewProgressBar(len(groups))
	fits := make([]*decimationFit, len(groups))

	// 組ごとに独立しているので並列に計算し、反映は順に行う
	var wg sync.WaitGroup
	for i, group := range groups {
		wg.Add(1)
		go func(i int, group *decimateGroup) {
			defer wg.Done()
			defer bar.Increment()
			fits[i] = group.fit(state, frameCount, dc)
		}(i, group)
	}
	wg.Wait()
	bar.Finish()

	for i, group := range groups {
		if fits[i] == nil {
			continue
		}
		for _, bone := range group.Bones {
			mlog.I(mi18n.T("間引き結果", map[string]interface{}{
				"BoneName": bone.String(), "Before": state.Channel(bone).Len(), "After": len(fits[i].frames)}))
		}
		commitFit(decimated, group.Bones, fits[i])
	}

	mlog.I("End: Decimate =============================")

	return decimated
}
