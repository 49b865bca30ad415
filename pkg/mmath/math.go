package mmath

import (
	"math"

	"golang.org/x/exp/constraints"
)

const fuzzyEpsilon = 1e-10

func isFuzzyNull(v float64) bool {
	return math.Abs(v) <= fuzzyEpsilon
}

func Clamp[T constraints.Ordered](v, minV, maxV T) T {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func ToRadian(degree float64) float64 {
	return degree * math.Pi / 180
}

func ToDegree(radian float64) float64 {
	return radian * 180 / math.Pi
}

func NearEquals(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// SafeAcos 定義域外は端にクランプする
func SafeAcos(v float64) float64 {
	return math.Acos(Clamp(v, -1.0, 1.0))
}

func SafeAsin(v float64) float64 {
	return math.Asin(Clamp(v, -1.0, 1.0))
}

// LawOfCosinesDegree 辺a,bの間の角度(度)。a,bいずれかが長さ0の場合は0
func LawOfCosinesDegree(a, b, c float64) float64 {
	if isFuzzyNull(a) || isFuzzyNull(b) {
		return 0
	}
	return ToDegree(SafeAcos((a*a + b*b - c*c) / (2 * a * b)))
}
