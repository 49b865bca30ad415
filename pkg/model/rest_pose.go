package model

import "github.com/miu200521358/pos2vmd/pkg/mmath"

// DefaultRestPose 回転なしとみなす基準姿勢
// ひざ・ひじは向きが定まるように少しだけ曲げ、腕は30度下げたAスタンス
func DefaultRestPose() JointFrame {
	var pose JointFrame
	pose[HIP] = *mmath.NewMVec3ByValues(0, 10, 0)
	pose[RIGHT_HIP] = *mmath.NewMVec3ByValues(-1, 10, 0)
	pose[RIGHT_KNEE] = *mmath.NewMVec3ByValues(-1, 5, 0)
	pose[RIGHT_FOOT] = *mmath.NewMVec3ByValues(-1, 0, 0.3)
	pose[LEFT_HIP] = *mmath.NewMVec3ByValues(1, 10, 0)
	pose[LEFT_KNEE] = *mmath.NewMVec3ByValues(1, 5, 0)
	pose[LEFT_FOOT] = *mmath.NewMVec3ByValues(1, 0, 0.3)
	pose[SPINE] = *mmath.NewMVec3ByValues(0, 12, 0)
	pose[THORAX] = *mmath.NewMVec3ByValues(0, 14.5, 0)
	pose[NOSE] = *mmath.NewMVec3ByValues(0, 15.5, -0.8)
	pose[HEAD] = *mmath.NewMVec3ByValues(0, 16.5, 0)
	pose[LEFT_SHOULDER] = *mmath.NewMVec3ByValues(1.5, 14, 0)
	pose[LEFT_ELBOW] = *mmath.NewMVec3ByValues(4.1, 12.5, 0)
	pose[LEFT_WRIST] = *mmath.NewMVec3ByValues(6.6, 11, -0.3)
	pose[RIGHT_SHOULDER] = *mmath.NewMVec3ByValues(-1.5, 14, 0)
	pose[RIGHT_ELBOW] = *mmath.NewMVec3ByValues(-4.1, 12.5, 0)
	pose[RIGHT_WRIST] = *mmath.NewMVec3ByValues(-6.6, 11, -0.3)
	return pose
}
