package model

import "github.com/miu200521358/pos2vmd/pkg/mmath"

// JointIndex 3D関節の並び(H36M)
type JointIndex int

const (
	HIP JointIndex = iota
	RIGHT_HIP
	RIGHT_KNEE
	RIGHT_FOOT
	LEFT_HIP
	LEFT_KNEE
	LEFT_FOOT
	SPINE
	THORAX
	NOSE
	HEAD
	LEFT_SHOULDER
	LEFT_ELBOW
	LEFT_WRIST
	RIGHT_SHOULDER
	RIGHT_ELBOW
	RIGHT_WRIST
	JOINT_COUNT
)

// JointFrame 1フレーム分の3D関節位置
type JointFrame [JOINT_COUNT]mmath.MVec3

func (f *JointFrame) Get(joint JointIndex) *mmath.MVec3 {
	return &f[joint]
}

// Vector from から to への方向
func (f *JointFrame) Vector(from, to JointIndex) *mmath.MVec3 {
	return f[to].Subed(&f[from])
}

// Transformed 全関節を一律に拡大・平行移動したもの
func (f *JointFrame) Transformed(scale float64, offset *mmath.MVec3) JointFrame {
	var transformed JointFrame
	for i := range f {
		transformed[i] = *f[i].MuledScalar(scale).Add(offset)
	}
	return transformed
}

// KeypointIndex 2Dキーポイントのうちセンター計算に使うもの
type KeypointIndex int

const (
	KP_NECK KeypointIndex = iota
	KP_RIGHT_HIP
	KP_LEFT_HIP
	KP_RIGHT_KNEE
	KP_LEFT_KNEE
	KP_RIGHT_ANKLE
	KP_LEFT_ANKLE
	KEYPOINT_COUNT
)

var keypointNames = [KEYPOINT_COUNT]string{
	KP_NECK:        "Neck",
	KP_RIGHT_HIP:   "RHip",
	KP_LEFT_HIP:    "LHip",
	KP_RIGHT_KNEE:  "RKnee",
	KP_LEFT_KNEE:   "LKnee",
	KP_RIGHT_ANKLE: "RAnkle",
	KP_LEFT_ANKLE:  "LAnkle",
}

func (k KeypointIndex) String() string {
	return keypointNames[k]
}

func KeypointIndexByName(name string) (KeypointIndex, bool) {
	for i, n := range keypointNames {
		if n == name {
			return KeypointIndex(i), true
		}
	}
	return 0, false
}

// Keypoints2D 1フレーム分の2Dキーポイント(ピクセル)
type Keypoints2D [KEYPOINT_COUNT]mmath.MVec2

func (k *Keypoints2D) Get(index KeypointIndex) *mmath.MVec2 {
	return &k[index]
}

// HipAverageY 両足付け根Yの平均の絶対値
func (k *Keypoints2D) HipAverageY() float64 {
	y := (k[KP_RIGHT_HIP].GetY() + k[KP_LEFT_HIP].GetY()) / 2
	if y < 0 {
		return -y
	}
	return y
}

// TrunkAverageX 首と両足付け根Xの平均
func (k *Keypoints2D) TrunkAverageX() float64 {
	return (k[KP_NECK].GetX() + k[KP_RIGHT_HIP].GetX() + k[KP_LEFT_HIP].GetX()) / 3
}

// DepthSample 深度推定の1サンプル
type DepthSample struct {
	Index      int
	Waist      float64
	RightAnkle float64
	LeftAnkle  float64
}

// Inputs 1回の変換に必要な入力一式
type Inputs struct {
	Positions []JointFrame
	// 補助の3D関節位置。なければnil
	SecondaryPositions []JointFrame
	Keypoints          []Keypoints2D
	// 深度。なければnil
	Depths        []DepthSample
	StartFrame    int
	UprightTarget *UprightTarget
}

func (i *Inputs) FrameCount() int {
	return len(i.Positions)
}

func (i *Inputs) HasSecondary() bool {
	return len(i.SecondaryPositions) > 0
}
