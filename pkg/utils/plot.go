package utils

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

var axisLabels = []string{"X", "Y", "Z"}

// channelValues 移動ボーンは移動量、それ以外はオイラー角(度)
func channelValues(bf *vmd.BoneFrame, translatable bool) *mmath.MVec3 {
	if translatable {
		return bf.Position.Copy()
	}
	return bf.Rotation.ToEulerAngles()
}

// PlotDecimation 間引き前の値を線、間引き後に残ったキーフレームを点で描く
func PlotDecimation(path string, full, decimated *vmd.BoneChannel) error {
	translatable := full.Bone.IsTranslatable()

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%d -> %d)", full.Bone.EnglishName(), full.Len(), decimated.Len())
	p.X.Label.Text = "frame"
	if translatable {
		p.Y.Label.Text = "position"
	} else {
		p.Y.Label.Text = "degree"
	}
	p.Legend.Top = true

	for axis, label := range axisLabels {
		lines := make(plotter.XYs, 0, full.Len())
		for _, bf := range full.Frames() {
			lines = append(lines, plotter.XY{X: float64(bf.Index), Y: channelValues(bf, translatable)[axis]})
		}
		points := make(plotter.XYs, 0, decimated.Len())
		for _, bf := range decimated.Frames() {
			points = append(points, plotter.XY{X: float64(bf.Index), Y: channelValues(bf, translatable)[axis]})
		}

		line, err := plotter.NewLine(lines)
		if err != nil {
			return errors.Wrapf(err, "failed to plot %s", label)
		}
		line.Color = plotutil.Color(axis)

		scatter, err := plotter.NewScatter(points)
		if err != nil {
			return errors.Wrapf(err, "failed to plot %s", label)
		}
		scatter.Color = plotutil.Color(axis)
		scatter.Shape = plotutil.Shape(axis)

		p.Add(line, scatter)
		p.Legend.Add(label, line, scatter)
	}

	if err := p.Save(12*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save plot %s", path)
	}

	return nil
}
