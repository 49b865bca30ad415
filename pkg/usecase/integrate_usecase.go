package usecase

import (
	"math"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
)

// buildFrame 1フレーム分の回転を求める
// 補助の3D関節位置があれば、条件を満たす場合だけそちらを採用する
func (b *frameBuilder) buildFrame(inputs *model.Inputs, n int, prev boneRotations) boneRotations {
	pose := &inputs.Positions[n]

	var secondaryPose *model.JointFrame
	if inputs.HasSecondary() && n < len(inputs.SecondaryPositions) {
		secondaryPose = &inputs.SecondaryPositions[n]
	}

	rotations := boneRotations{}
	corr := newCorrection()
	isSecondary := false

	// 体幹
	if secondaryPose != nil {
		secondaryRotations := boneRotations{}
		secondaryCorr := newCorrection()
		b.calcBones(secondaryPose, trunkBones, secondaryRotations, secondaryCorr, false)

		if b.isSmoothedPrev(secondaryRotations, prev) && b.isTiltedTrunk(secondaryRotations) {
			mlog.V("[%d] 補助の体幹を採用", n)
			rotations = secondaryRotations
			corr = secondaryCorr
			isSecondary = true
		}
	}
	if !isSecondary {
		b.calcBones(pose, trunkBones, rotations, corr, true)
	}

	// 頭・腕は体幹と同じ入力を使う
	upperPose := pose
	if isSecondary {
		upperPose = secondaryPose
	}
	b.calcBones(upperPose, upperLimbBones, rotations, corr, true)

	// 足
	if secondaryPose != nil {
		legRotations := boneRotations{pmx.LOWER: rotations[pmx.LOWER]}
		b.calcBones(secondaryPose, legBones, legRotations, newCorrection(), false)

		if isSecondary || b.isTiltedLegs(legRotations) {
			mlog.V("[%d] 補助の足を採用", n)
			for _, bone := range legBones {
				rotations[bone] = legRotations[bone]
			}
			return rotations
		}
	}
	b.calcBones(pose, legBones, rotations, corr, true)

	return rotations
}

// isSmoothedPrev 前フレームとの差がどの軸も閾値以内か
func (b *frameBuilder) isSmoothedPrev(rotations, prev boneRotations) bool {
	if prev == nil {
		return true
	}

	for bone, rotation := range rotations {
		prevRotation, ok := prev[bone]
		if !ok {
			continue
		}
		prevEuler := prevRotation.ToEulerAngles()
		nowEuler := rotation.ToEulerAngles()
		for i := range 3 {
			if math.Abs(prevEuler[i]-nowEuler[i]) > b.config.SecondaryDiff {
				return false
			}
		}
	}

	return true
}

// isTiltedTrunk 上半身・下半身のX軸かZ軸が大きく傾いているか。Y軸は見ない
func (b *frameBuilder) isTiltedTrunk(rotations boneRotations) bool {
	for _, bone := range trunkBones {
		if bone == pmx.UPPER2 {
			continue
		}
		rotation, ok := rotations[bone]
		if !ok {
			continue
		}
		euler := rotation.ToEulerAngles()
		if math.Abs(euler.GetX()) > b.config.SecondaryTilt || math.Abs(euler.GetZ()) > b.config.SecondaryTilt {
			return true
		}
	}
	return false
}

// isTiltedLegs 足・ひざのどれかの軸が大きく回っているか
func (b *frameBuilder) isTiltedLegs(rotations boneRotations) bool {
	for _, bone := range legBones {
		rotation, ok := rotations[bone]
		if !ok {
			continue
		}
		if maxAbsEuler(rotation) > b.config.SecondaryTilt {
			return true
		}
	}
	return false
}

// maxAbsEuler オイラー角の絶対値の最大
func maxAbsEuler(rotation *mmath.MQuaternion) float64 {
	euler := rotation.ToEulerAngles()
	return max(math.Abs(euler.GetX()), math.Abs(euler.GetY()), math.Abs(euler.GetZ()))
}
