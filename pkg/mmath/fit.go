package mmath

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SlopeAngle 最小二乗法で当てはめた直線の傾き角度(度)
// 点が2未満、全点が同じ値、もしくはxが全て同じ値の場合は0
func SlopeAngle(xs, ys []float64) float64 {
	if len(xs) <= 1 || len(xs) != len(ys) {
		return 0
	}

	if stat.Mean(xs, nil) == xs[0] && stat.Mean(ys, nil) == ys[0] {
		return 0
	}

	if floats.Max(xs)-floats.Min(xs) == 0 {
		return 0
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0
	}

	return ToDegree(math.Atan(slope))
}
