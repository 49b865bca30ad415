package usecase

import (
	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
	"github.com/miu200521358/pos2vmd/pkg/utils"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

// legChain 片足分のボーン初期位置
type legChain struct {
	Direction pmx.BoneDirection
	Center    *mmath.MVec3
	Lower     *mmath.MVec3
	Leg       *mmath.MVec3
	Knee      *mmath.MVec3
	Ankle     *mmath.MVec3
	Toe       *mmath.MVec3
	LegIk     *mmath.MVec3
}

func newLegChain(skeleton *pmx.SkeletonReference, direction pmx.BoneDirection) *legChain {
	return &legChain{
		Direction: direction,
		Center:    skeleton.Position(pmx.CENTER),
		Lower:     skeleton.Position(pmx.LOWER),
		Leg:       skeleton.Position(pmx.LEG.By(direction)),
		Knee:      skeleton.Position(pmx.KNEE.By(direction)),
		Ankle:     skeleton.Position(pmx.ANKLE.By(direction)),
		Toe:       skeleton.Position(pmx.TOE.By(direction)),
		LegIk:     skeleton.Position(pmx.LEG_IK.By(direction)),
	}
}

// legIkResult 足IKの計算結果
type legIkResult struct {
	// 足IKの移動量(足IK初期位置からの相対)
	AnklePosition mmath.MVec3
	IkRotation    mmath.MQuaternion
	// 足ボーンに設定する補正回転
	LegRotation mmath.MQuaternion
}

// legIkPositions 変換行列を通したワールド位置
type legIkPositions struct {
	Leg   *mmath.MVec3
	Knee  *mmath.MVec3
	Ankle *mmath.MVec3
}

// calcIkMatrix センター・下半身・足・ひざの回転から足首位置を求め、足IKの値に置き換える
func (c *legChain) calcIkMatrix(
	centerPos *mmath.MVec3, lowerRotation, legRotation, kneeRotation *mmath.MQuaternion,
) (*legIkResult, *legIkPositions) {
	translations := []*mmath.MVec3{
		c.Center.Added(centerPos).Sub(c.LegIk),
		c.Lower.Subed(c.Center),
		c.Leg.Subed(c.Lower),
		c.Knee.Subed(c.Leg),
		c.Ankle.Subed(c.Knee),
		c.Toe.Subed(c.Ankle),
	}
	rotations := []*mmath.MQuaternion{
		mmath.NewMQuaternion(),
		lowerRotation,
		legRotation,
		kneeRotation,
		mmath.NewMQuaternion(),
		mmath.NewMQuaternion(),
	}

	// 親から順に 平行移動→回転 を掛けた行列
	matrixes := make([]*mmath.MMat4, len(translations))
	chain := mmath.NewMMat4()
	for i := range translations {
		chain = chain.Muled(mmath.NewMMat4().Translate(translations[i]).Rotate(rotations[i]))
		matrixes[i] = chain
	}

	positions := &legIkPositions{
		Leg:   matrixes[1].MulVec3(translations[2]),
		Knee:  matrixes[2].MulVec3(translations[3]),
		Ankle: matrixes[3].MulVec3(translations[4]),
	}

	kneeLegLength := c.Knee.Distance(c.Leg)
	ankleKneeLength := c.Ankle.Distance(c.Knee)
	ankleLeg := positions.Ankle.Subed(positions.Leg)

	// 足の付け根の曲がり角度
	legAngle := mmath.LawOfCosinesDegree(ankleLeg.Length(), kneeLegLength, ankleKneeLength)

	// 足首方向を横軸で曲げた先を、IK上のひざ位置とする
	kneeDirection := mmath.NewMQuaternionFromEulerAngles(-legAngle, 0, 0).MulVec3(ankleLeg.Normalized())
	ikKnee := kneeDirection.MuledScalar(kneeLegLength).Add(positions.Leg)

	legDiff := mmath.NewMQuaternionRotationTo(
		positions.Knee.Subed(positions.Leg),
		ikKnee.Subed(positions.Leg),
	)

	return &legIkResult{
		AnklePosition: *positions.Ankle,
		IkRotation:    *lowerRotation.Muled(legRotation).Muled(kneeRotation).Normalized(),
		LegRotation:   *legDiff,
	}, positions
}

// ConvertLegIk 足・ひざのFK回転を足IKに変換する
func ConvertLegIk(
	state *vmd.AnimationState, inputs *model.Inputs, skeleton *pmx.SkeletonReference, config *model.Config,
) {
	if !config.LegIk {
		state.Remove(pmx.LEG_IK_L)
		state.Remove(pmx.LEG_IK_R)
		state.IkEnabled = false
		return
	}

	mlog.I("Start: Leg IK =============================")

	chains := map[pmx.BoneDirection]*legChain{
		pmx.BONE_DIRECTION_LEFT:  newLegChain(skeleton, pmx.BONE_DIRECTION_LEFT),
		pmx.BONE_DIRECTION_RIGHT: newLegChain(skeleton, pmx.BONE_DIRECTION_RIGHT),
	}
	ankleKeypoints := map[pmx.BoneDirection]model.KeypointIndex{
		pmx.BONE_DIRECTION_LEFT:  model.KP_LEFT_ANKLE,
		pmx.BONE_DIRECTION_RIGHT: model.KP_RIGHT_ANKLE,
	}
	holdStates := map[pmx.BoneDirection]legHoldState{}

	centerChannel := state.Channel(pmx.CENTER)
	lowerChannel := state.Channel(pmx.LOWER)
	sunken := newSunkenCenter(skeleton)

	frameCount := state.Channel(pmx.LEG_L).MaxIndex() + 1
	bar := utils.NewProgressBar(frameCount)

	for n := range frameCount {
		centerBf := centerChannel.Get(n)
		if centerBf == nil {
			bar.Increment()
			continue
		}

		results := make(map[pmx.BoneDirection]*legIkResult, 2)
		solved := make(map[pmx.BoneDirection]bool, 2)

		for _, direction := range []pmx.BoneDirection{pmx.BONE_DIRECTION_LEFT, pmx.BONE_DIRECTION_RIGHT} {
			ankle2D := mmath.NewMVec2()
			if n < len(inputs.Keypoints) {
				ankle2D = inputs.Keypoints[n].Get(ankleKeypoints[direction])
			}

			var solve bool
			holdStates[direction], solve = stepLegHold(holdStates[direction], ankle2D, n, config.IkHoldPixels)
			solved[direction] = solve

			if !solve {
				// 前回計算したフレームの値をそのまま使う
				prev := holdStates[direction].PrevFrame
				ikBf := state.Channel(pmx.LEG_IK.By(direction)).Get(prev)
				legBf := state.Channel(pmx.LEG.By(direction)).Get(prev)
				results[direction] = &legIkResult{
					AnklePosition: ikBf.Position,
					IkRotation:    ikBf.Rotation,
					LegRotation:   legBf.Rotation,
				}
				mlog.V("[%d][%s] hold leg ik from %d", n, direction, prev)
				continue
			}

			results[direction], _ = chains[direction].calcIkMatrix(
				&centerBf.Position,
				&lowerChannel.Get(n).Rotation,
				&state.Channel(pmx.LEG.By(direction)).Get(n).Rotation,
				&state.Channel(pmx.KNEE.By(direction)).Get(n).Rotation,
			)
			mlog.V("[%d][%s] solve leg ik: %s", n, direction, results[direction].AnklePosition.String())
		}

		// 両足とも計算しなかった場合は前後に動かさない
		if n > 0 && !solved[pmx.BONE_DIRECTION_LEFT] && !solved[pmx.BONE_DIRECTION_RIGHT] {
			prev := max(holdStates[pmx.BONE_DIRECTION_LEFT].PrevFrame, holdStates[pmx.BONE_DIRECTION_RIGHT].PrevFrame)
			centerBf.Position.SetZ(centerChannel.Get(prev).Position.GetZ())
		}

		fixGround(results[pmx.BONE_DIRECTION_LEFT], results[pmx.BONE_DIRECTION_RIGHT], &centerBf.Position)
		sunken.fix(&centerBf.Position)

		for direction, result := range results {
			ikBf := state.Channel(pmx.LEG_IK.By(direction)).Get(n)
			ikBf.Position = result.AnklePosition
			ikBf.Rotation = result.IkRotation
			state.Channel(pmx.LEG.By(direction)).Get(n).Rotation = result.LegRotation
		}

		bar.Increment()
	}

	// ひざはIKで動かす
	state.Channel(pmx.KNEE_L).Clear()
	state.Channel(pmx.KNEE_R).Clear()
	state.IkEnabled = true

	bar.Finish()
	mlog.I("End: Leg IK =============================")
}
