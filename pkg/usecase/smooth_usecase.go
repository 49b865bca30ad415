package usecase

import (
	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
	"github.com/miu200521358/pos2vmd/pkg/utils"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

// fkSmoothBones IK計算前に平滑化する回転ボーン
var fkSmoothBones = []pmx.BoneId{
	pmx.UPPER, pmx.UPPER2, pmx.LOWER, pmx.NECK, pmx.HEAD,
	pmx.SHOULDER_L, pmx.ARM_L, pmx.ELBOW_L, pmx.SHOULDER_R, pmx.ARM_R, pmx.ELBOW_R,
	pmx.LEG_L, pmx.KNEE_L, pmx.LEG_R, pmx.KNEE_R,
}

// Smooth 2フレーム前と現在の中間値で1フレーム前を置き換える。前から順に上書きする
// rotationBones は回転、positionBones は移動を対象とする
func Smooth(state *vmd.AnimationState, rotationBones, positionBones []pmx.BoneId, times int) {
	if times <= 0 {
		return
	}

	mlog.I("Start: Smooth =============================")

	bar := utils.NewProgressBar(times * (len(rotationBones) + len(positionBones)))

	for range times {
		for _, bone := range rotationBones {
			if state.Has(bone) {
				smoothRotation(state.Channel(bone))
			}
			bar.Increment()
		}
		for _, bone := range positionBones {
			if state.Has(bone) {
				smoothPosition(state.Channel(bone))
			}
			bar.Increment()
		}
	}

	bar.Finish()
	mlog.I("End: Smooth =============================")
}

func smoothRotation(channel *vmd.BoneChannel) {
	for f := 2; f <= channel.MaxIndex(); f++ {
		prev2, prev, now := channel.Get(f-2), channel.Get(f-1), channel.Get(f)
		if prev2 == nil || prev == nil || now == nil {
			continue
		}
		if !prev2.Rotation.Equals(&now.Rotation) {
			prev.Rotation = *mmath.Slerp(&prev2.Rotation, &now.Rotation, 0.5).Normalized()
		}
	}
}

func smoothPosition(channel *vmd.BoneChannel) {
	for f := 4; f <= channel.MaxIndex(); f++ {
		prev2, prev, now := channel.Get(f-2), channel.Get(f-1), channel.Get(f)
		if prev2 == nil || prev == nil || now == nil {
			continue
		}
		if !prev2.Position.Equals(&now.Position) {
			prev.Position = *prev2.Position.Lerp(&now.Position, 0.5)
		}
	}
}
