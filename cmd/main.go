package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mi18n"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
	"github.com/miu200521358/pos2vmd/pkg/usecase"
	"github.com/miu200521358/pos2vmd/pkg/utils"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

const (
	flagTargetDir          = "target-dir"
	flagBoneCsv            = "bone-csv"
	flagOutputDir          = "output-dir"
	flagName               = "name"
	flagModelName          = "model-name"
	flagConfig             = "config"
	flagUprightTarget      = "upright-target"
	flagCenterXYScale      = "center-xy-scale"
	flagCenterZScale       = "center-z-scale"
	flagSmoothTimes        = "smooth-times"
	flagXAngle             = "x-angle"
	flagRotationDecimation = "rotation-decimation"
	flagCenterDecimation   = "center-decimation"
	flagIkDecimation       = "ik-decimation"
	flagAlignment          = "alignment"
	flagLegIk              = "leg-ik"
	flagHeelPosition       = "heel-position"
	flagLogLevel           = "log-level"
	flagLang               = "lang"
)

func main() {
	app := &cli.App{
		Name:  "pos2vmd",
		Usage: "convert 3D pose estimation to MMD motion",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagTargetDir, Aliases: []string{"t"}, Required: true,
				Usage: "directory with pos.txt and smoothed.txt"},
			&cli.StringFlag{Name: flagBoneCsv, Aliases: []string{"b"}, Required: true,
				Usage: "bone CSV exported from PmxEditor"},
			&cli.StringFlag{Name: flagOutputDir, Aliases: []string{"o"}, Usage: "output directory (default: target dir)"},
			&cli.StringFlag{Name: flagName, Value: "output", Usage: "output file base name"},
			&cli.StringFlag{Name: flagModelName, Usage: "model name written to VMD"},
			&cli.StringFlag{Name: flagConfig, Aliases: []string{"c"}, Usage: "load parameters from json5 `FILE`"},
			&cli.StringFlag{Name: flagUprightTarget, Usage: "directory with upright.txt from a previous run"},
			&cli.Float64Flag{Name: flagCenterXYScale, Usage: "center XY scale (0: no move)"},
			&cli.Float64Flag{Name: flagCenterZScale, Usage: "center Z scale (0: no move)"},
			&cli.IntFlag{Name: flagSmoothTimes, Usage: "smoothing passes"},
			&cli.Float64Flag{Name: flagXAngle, Usage: "forward tilt correction degree"},
			&cli.Float64Flag{Name: flagRotationDecimation, Usage: "rotation decimation degree (0: none)"},
			&cli.Float64Flag{Name: flagCenterDecimation, Usage: "center decimation threshold (0: none)"},
			&cli.Float64Flag{Name: flagIkDecimation, Usage: "leg IK decimation threshold (0: none)"},
			&cli.BoolFlag{Name: flagAlignment, Usage: "align keyframes of related bones"},
			&cli.BoolFlag{Name: flagLegIk, Usage: "convert legs to leg IK"},
			&cli.Float64Flag{Name: flagHeelPosition, Usage: "center Y offset"},
			&cli.StringFlag{Name: flagLogLevel, Value: "INFO", Usage: "VERBOSE, DEBUG, INFO, WARN, ERROR"},
			&cli.StringFlag{Name: flagLang, Value: "ja", Usage: "message language (ja, en)"},
		},
		Before: func(c *cli.Context) error {
			mlog.SetLevel(mlog.ParseLevel(c.String(flagLogLevel)))
			mi18n.SetLang(c.String(flagLang))
			return nil
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		mlog.E("%+v", err)
		mlog.Sync()
		os.Exit(1)
	}
	mlog.Sync()
}

// loadConfig 設定ファイル、コマンドライン引数の順に上書きする
func loadConfig(c *cli.Context) (*model.Config, error) {
	config := model.NewConfig()
	if path := c.String(flagConfig); path != "" {
		if err := config.LoadConfigFile(path); err != nil {
			return nil, err
		}
	}

	floats := map[string]*float64{
		flagCenterXYScale:      &config.CenterXYScale,
		flagCenterZScale:       &config.CenterZScale,
		flagXAngle:             &config.XAngle,
		flagRotationDecimation: &config.RotationDecimation,
		flagCenterDecimation:   &config.CenterDecimation,
		flagIkDecimation:       &config.IkDecimation,
		flagHeelPosition:       &config.HeelPosition,
	}
	for name, value := range floats {
		if c.IsSet(name) {
			*value = c.Float64(name)
		}
	}
	if c.IsSet(flagSmoothTimes) {
		config.SmoothTimes = c.Int(flagSmoothTimes)
	}
	if c.IsSet(flagAlignment) {
		config.Alignment = c.Bool(flagAlignment)
	}
	if c.IsSet(flagLegIk) {
		config.LegIk = c.Bool(flagLegIk)
	}

	return config, nil
}

func run(c *cli.Context) error {
	config, err := loadConfig(c)
	if err != nil {
		return err
	}

	dirPath := c.String(flagTargetDir)
	outputDir := c.String(flagOutputDir)
	if outputDir == "" {
		outputDir = dirPath
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	if mlog.IsDebug() {
		config.DebugDir = outputDir
	}

	inputs, err := usecase.Unpack(dirPath, c.String(flagUprightTarget))
	if err != nil {
		return err
	}

	skeleton, err := pmx.ReadBoneCsv(c.String(flagBoneCsv))
	if err != nil {
		return err
	}

	fullState, target, err := usecase.Convert(inputs, skeleton, config)
	if err != nil {
		return err
	}

	motions := []*utils.OutputMotion{{Suffix: "", State: fullState}}
	if config.IsDecimation() {
		decimatedState := usecase.Decimate(fullState, config)
		motions = []*utils.OutputMotion{
			{Suffix: "", State: decimatedState},
			{Suffix: "full", State: fullState},
		}

		if mlog.IsDebug() {
			plotDecimation(fullState, decimatedState, filepath.Join(outputDir, "plot"), c.String(flagName))
		}
	}

	if err := utils.WriteVmdMotions(motions, outputDir, c.String(flagName), c.String(flagModelName)); err != nil {
		return err
	}

	if err := utils.WriteUprightTarget(filepath.Join(outputDir, usecase.UPRIGHT_FILE_NAME), target); err != nil {
		return err
	}

	if err := utils.WriteComplete(outputDir); err != nil {
		return err
	}

	mlog.I(mi18n.T("処理完了"))

	return nil
}

// plotDecimation ボーンごとの間引き結果を画像で出力する
func plotDecimation(full, decimated *vmd.AnimationState, plotDir, baseName string) {
	if err := os.MkdirAll(plotDir, 0755); err != nil {
		mlog.W("Failed to create plot dir: %v", err)
		return
	}

	for _, bone := range decimated.BoneIds() {
		path := filepath.Join(plotDir, baseName+"_"+bone.EnglishName()+".png")
		if err := utils.PlotDecimation(path, full.Channel(bone), decimated.Channel(bone)); err != nil {
			mlog.W("Failed to plot %s: %v", bone.EnglishName(), err)
		}
	}
}
