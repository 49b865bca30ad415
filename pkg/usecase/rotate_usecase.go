package usecase

import (
	"math"

	"github.com/samber/lo"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
	"github.com/miu200521358/pos2vmd/pkg/utils"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

// Rotate 3D関節位置から各ボーンの回転キーフレームを生成する
func Rotate(inputs *model.Inputs, skeleton *pmx.SkeletonReference, config *model.Config) *vmd.AnimationState {
	mlog.I("Start: Rotate =============================")

	builder := newFrameBuilder(skeleton.HasUpper2, config)
	state := vmd.NewAnimationState()
	bar := utils.NewProgressBar(inputs.FrameCount())

	var prev boneRotations
	for n := range inputs.FrameCount() {
		rotations := builder.buildFrame(inputs, n, prev)

		for bone, rotation := range rotations {
			bf := vmd.NewBoneFrame(n)
			bf.Rotation = *rotation
			state.Channel(bone).Append(bf)
		}

		// センターと足IKは後段で値を入れる
		for _, bone := range []pmx.BoneId{pmx.CENTER, pmx.LEG_IK_L, pmx.LEG_IK_R} {
			state.Channel(bone).Append(vmd.NewBoneFrame(n))
		}

		prev = rotations
		bar.Increment()
	}

	bar.Finish()
	mlog.I("End: Rotate =============================")

	return state
}

// correctionTier 前傾補正の掛け方
type correctionTier int

const (
	tierNone correctionTier = iota
	// 体の向きで倍率を変えて右から掛ける
	tierUpper
	tierUpper2
	tierLower
	// 親の補正を左から掛ける
	tierInheritUpper
	tierInheritLower
)

// tierFactors 正面・背面・側面の補正倍率
var tierFactors = map[correctionTier][3]float64{
	tierUpper:  {1.5, 1.0, 0.5},
	tierUpper2: {2.0, 1.5, 1.0},
	tierLower:  {1.0, 1.0, 0.5},
}

type boneConfig struct {
	Name          pmx.BoneId
	DirectionFrom model.JointIndex
	DirectionTo   model.JointIndex
	// 上方向は UpFrom→UpTo と CrossFrom→CrossTo の外積
	UpFrom    model.JointIndex
	UpTo      model.JointIndex
	CrossFrom model.JointIndex
	CrossTo   model.JointIndex
	// 首は上方向を向きとして扱う
	UpAsDirection bool
	Cancels       []pmx.BoneId
	Tier          correctionTier
}

// orientation 関節位置から求めたボーンの向き
func (bc *boneConfig) orientation(pose *model.JointFrame) *mmath.MQuaternion {
	direction := pose.Vector(bc.DirectionFrom, bc.DirectionTo)
	up := pose.Vector(bc.UpFrom, bc.UpTo).Cross(pose.Vector(bc.CrossFrom, bc.CrossTo))
	if bc.UpAsDirection {
		return mmath.NewMQuaternionFromDirection(up, direction)
	}
	return mmath.NewMQuaternionFromDirection(direction, up)
}

// 上半身2がない場合の上半身
var upperConfig = &boneConfig{
	Name:          pmx.UPPER,
	DirectionFrom: model.SPINE,
	DirectionTo:   model.THORAX,
	UpFrom:        model.SPINE,
	UpTo:          model.THORAX,
	CrossFrom:     model.LEFT_SHOULDER,
	CrossTo:       model.RIGHT_SHOULDER,
	Cancels:       []pmx.BoneId{},
	Tier:          tierUpper,
}

var upperWithUpper2Configs = []*boneConfig{
	{
		Name:          pmx.UPPER,
		DirectionFrom: model.HIP,
		DirectionTo:   model.SPINE,
		UpFrom:        model.HIP,
		UpTo:          model.SPINE,
		CrossFrom:     model.LEFT_SHOULDER,
		CrossTo:       model.RIGHT_SHOULDER,
		Cancels:       []pmx.BoneId{},
		Tier:          tierUpper,
	},
	{
		Name:          pmx.UPPER2,
		DirectionFrom: model.SPINE,
		DirectionTo:   model.THORAX,
		UpFrom:        model.SPINE,
		UpTo:          model.THORAX,
		CrossFrom:     model.LEFT_SHOULDER,
		CrossTo:       model.RIGHT_SHOULDER,
		Cancels:       []pmx.BoneId{pmx.UPPER},
		Tier:          tierUpper2,
	},
}

var lowerConfigs = []*boneConfig{
	{
		Name:          pmx.LOWER,
		DirectionFrom: model.SPINE,
		DirectionTo:   model.HIP,
		UpFrom:        model.SPINE,
		UpTo:          model.HIP,
		CrossFrom:     model.RIGHT_HIP,
		CrossTo:       model.LEFT_HIP,
		Cancels:       []pmx.BoneId{},
		Tier:          tierLower,
	},
}

var headConfigs = []*boneConfig{
	{
		Name:          pmx.NECK,
		DirectionFrom: model.THORAX,
		DirectionTo:   model.NOSE,
		UpFrom:        model.LEFT_SHOULDER,
		UpTo:          model.RIGHT_SHOULDER,
		CrossFrom:     model.THORAX,
		CrossTo:       model.NOSE,
		UpAsDirection: true,
		Cancels:       []pmx.BoneId{pmx.UPPER, pmx.UPPER2},
		Tier:          tierNone,
	},
	{
		Name:          pmx.HEAD,
		DirectionFrom: model.NOSE,
		DirectionTo:   model.HEAD,
		UpFrom:        model.THORAX,
		UpTo:          model.NOSE,
		CrossFrom:     model.NOSE,
		CrossTo:       model.HEAD,
		Cancels:       []pmx.BoneId{pmx.UPPER, pmx.UPPER2, pmx.NECK},
		Tier:          tierInheritUpper,
	},
}

func armConfigs(direction pmx.BoneDirection) []*boneConfig {
	shoulder, elbow, wrist, another := model.LEFT_SHOULDER, model.LEFT_ELBOW, model.LEFT_WRIST, model.RIGHT_SHOULDER
	if direction == pmx.BONE_DIRECTION_RIGHT {
		shoulder, elbow, wrist, another = model.RIGHT_SHOULDER, model.RIGHT_ELBOW, model.RIGHT_WRIST, model.LEFT_SHOULDER
	}

	return []*boneConfig{
		{
			Name:          pmx.SHOULDER.By(direction),
			DirectionFrom: model.THORAX,
			DirectionTo:   shoulder,
			UpFrom:        model.THORAX,
			UpTo:          shoulder,
			CrossFrom:     shoulder,
			CrossTo:       another,
			Cancels:       []pmx.BoneId{pmx.UPPER, pmx.UPPER2},
			Tier:          tierInheritUpper,
		},
		{
			Name:          pmx.ARM.By(direction),
			DirectionFrom: shoulder,
			DirectionTo:   elbow,
			UpFrom:        shoulder,
			UpTo:          elbow,
			CrossFrom:     elbow,
			CrossTo:       wrist,
			Cancels:       []pmx.BoneId{pmx.UPPER, pmx.UPPER2, pmx.SHOULDER.By(direction)},
			Tier:          tierInheritUpper,
		},
		{
			Name:          pmx.ELBOW.By(direction),
			DirectionFrom: elbow,
			DirectionTo:   wrist,
			UpFrom:        shoulder,
			UpTo:          elbow,
			CrossFrom:     elbow,
			CrossTo:       wrist,
			Cancels:       []pmx.BoneId{pmx.UPPER, pmx.UPPER2, pmx.SHOULDER.By(direction), pmx.ARM.By(direction)},
			Tier:          tierInheritUpper,
		},
	}
}

func legConfigs(direction pmx.BoneDirection) []*boneConfig {
	hip, knee, foot := model.LEFT_HIP, model.LEFT_KNEE, model.LEFT_FOOT
	if direction == pmx.BONE_DIRECTION_RIGHT {
		hip, knee, foot = model.RIGHT_HIP, model.RIGHT_KNEE, model.RIGHT_FOOT
	}

	return []*boneConfig{
		{
			Name:          pmx.LEG.By(direction),
			DirectionFrom: hip,
			DirectionTo:   knee,
			UpFrom:        hip,
			UpTo:          knee,
			CrossFrom:     knee,
			CrossTo:       foot,
			Cancels:       []pmx.BoneId{pmx.LOWER},
			Tier:          tierInheritLower,
		},
		{
			Name:          pmx.KNEE.By(direction),
			DirectionFrom: knee,
			DirectionTo:   foot,
			UpFrom:        hip,
			UpTo:          knee,
			CrossFrom:     knee,
			CrossTo:       foot,
			Cancels:       []pmx.BoneId{pmx.LOWER, pmx.LEG.By(direction)},
			Tier:          tierInheritLower,
		},
	}
}

// boneConfigsBy 親から順に並べた計算対象ボーン
func boneConfigsBy(hasUpper2 bool) []*boneConfig {
	uppers := []*boneConfig{upperConfig}
	if hasUpper2 {
		uppers = upperWithUpper2Configs
	}

	return lo.Flatten([][]*boneConfig{
		uppers,
		lowerConfigs,
		headConfigs,
		armConfigs(pmx.BONE_DIRECTION_LEFT),
		armConfigs(pmx.BONE_DIRECTION_RIGHT),
		legConfigs(pmx.BONE_DIRECTION_LEFT),
		legConfigs(pmx.BONE_DIRECTION_RIGHT),
	})
}

var (
	trunkBones     = []pmx.BoneId{pmx.UPPER, pmx.UPPER2, pmx.LOWER}
	upperLimbBones = []pmx.BoneId{
		pmx.NECK, pmx.HEAD,
		pmx.SHOULDER_L, pmx.ARM_L, pmx.ELBOW_L,
		pmx.SHOULDER_R, pmx.ARM_R, pmx.ELBOW_R,
	}
	legBones = []pmx.BoneId{pmx.LEG_L, pmx.KNEE_L, pmx.LEG_R, pmx.KNEE_R}
)

type boneRotations map[pmx.BoneId]*mmath.MQuaternion

// correction 子ボーンに引き継ぐ前傾補正
type correction struct {
	upper *mmath.MQuaternion
	lower *mmath.MQuaternion
}

func newCorrection() *correction {
	return &correction{upper: mmath.NewMQuaternion(), lower: mmath.NewMQuaternion()}
}

type frameBuilder struct {
	configs []*boneConfig
	// 基準姿勢でのボーンの向き
	references map[pmx.BoneId]*mmath.MQuaternion
	config     *model.Config
}

func newFrameBuilder(hasUpper2 bool, config *model.Config) *frameBuilder {
	restPose := config.RestPoseOrDefault()
	builder := &frameBuilder{
		configs:    boneConfigsBy(hasUpper2),
		references: make(map[pmx.BoneId]*mmath.MQuaternion),
		config:     config,
	}
	for _, bc := range builder.configs {
		builder.references[bc.Name] = bc.orientation(&restPose)
	}
	return builder
}

// calcBones bonesに含まれるボーンの回転を rotations に追加する
// corrected=false の場合、前傾補正は単位回転とする
func (b *frameBuilder) calcBones(
	pose *model.JointFrame, bones []pmx.BoneId, rotations boneRotations, corr *correction, corrected bool,
) {
	for _, bc := range b.configs {
		if !lo.Contains(bones, bc.Name) {
			continue
		}

		quat := bc.orientation(pose).Muled(b.references[bc.Name].Inverted())

		switch bc.Tier {
		case tierUpper, tierUpper2, tierLower:
			correctQuat := mmath.NewMQuaternion()
			if corrected {
				correctQuat = b.tierCorrection(bc.Tier, quat)
			}
			if bc.Tier == tierLower {
				corr.lower = correctQuat
			} else {
				corr.upper = correctQuat
			}
			quat = quat.Muled(correctQuat)
		case tierInheritUpper:
			quat = corr.upper.Muled(quat)
		case tierInheritLower:
			quat = corr.lower.Muled(quat)
		}

		// 親ボーンの回転をキャンセル
		cancelQuat := mmath.NewMQuaternion()
		for _, cancelBone := range bc.Cancels {
			if rotation, ok := rotations[cancelBone]; ok {
				cancelQuat = cancelQuat.Muled(rotation)
			}
		}

		rotations[bc.Name] = cancelQuat.Inverted().Muled(quat).Normalized()
	}
}

// tierCorrection 体の向き(Y軸回転)に応じた前傾補正
func (b *frameBuilder) tierCorrection(tier correctionTier, quat *mmath.MQuaternion) *mmath.MQuaternion {
	factors := tierFactors[tier]
	yaw := math.Abs(quat.ToEulerAngles().GetY())

	factor := factors[2]
	if yaw < b.config.FrontYaw {
		factor = factors[0]
	} else if yaw > b.config.BackYaw {
		factor = factors[1]
	}

	return mmath.NewMQuaternionFromEulerAngles(b.config.XAngle*factor, 0, 0)
}
