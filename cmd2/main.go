package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mi18n"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
	"github.com/miu200521358/pos2vmd/pkg/usecase"
	"github.com/miu200521358/pos2vmd/pkg/utils"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

// vmdreduce 出力済みのVMDを読み込んで間引きだけやり直す
func main() {
	app := &cli.App{
		Name:      "vmdreduce",
		Usage:     "decimate keyframes of a VMD motion",
		ArgsUsage: "VMD_FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load parameters from json5 `FILE`"},
			&cli.Float64Flag{Name: "rotation-decimation", Usage: "rotation decimation degree (0: none)"},
			&cli.Float64Flag{Name: "center-decimation", Usage: "center decimation threshold (0: none)"},
			&cli.Float64Flag{Name: "ik-decimation", Usage: "leg IK decimation threshold (0: none)"},
			&cli.BoolFlag{Name: "alignment", Usage: "align keyframes of related bones"},
			&cli.StringFlag{Name: "suffix", Value: "reduce", Usage: "output file suffix"},
			&cli.StringFlag{Name: "log-level", Value: "INFO", Usage: "VERBOSE, DEBUG, INFO, WARN, ERROR"},
			&cli.StringFlag{Name: "lang", Value: "ja", Usage: "message language (ja, en)"},
		},
		Before: func(c *cli.Context) error {
			mlog.SetLevel(mlog.ParseLevel(c.String("log-level")))
			mi18n.SetLang(c.String("lang"))
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

func run(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowAppHelp(c)
	}

	config := model.NewConfig()
	if path := c.String("config"); path != "" {
		if err := config.LoadConfigFile(path); err != nil {
			return err
		}
	}
	if c.IsSet("rotation-decimation") {
		config.RotationDecimation = c.Float64("rotation-decimation")
	}
	if c.IsSet("center-decimation") {
		config.CenterDecimation = c.Float64("center-decimation")
	}
	if c.IsSet("ik-decimation") {
		config.IkDecimation = c.Float64("ik-decimation")
	}
	if c.IsSet("alignment") {
		config.Alignment = c.Bool("alignment")
	}

	for i, vmdPath := range c.Args().Slice() {
		mlog.I("Read Vmd [%02d/%02d] %s", i+1, c.NArg(), filepath.Base(vmdPath))
		state, err := vmd.Read(vmdPath)
		if err != nil {
			return err
		}

		decimated := usecase.Decimate(state, config)

		baseName := strings.TrimSuffix(filepath.Base(vmdPath), filepath.Ext(vmdPath))
		motions := []*utils.OutputMotion{{Suffix: c.String("suffix"), State: decimated}}
		if err := utils.WriteVmdMotions(motions, filepath.Dir(vmdPath), baseName, ""); err != nil {
			return err
		}
	}

	mlog.I(mi18n.T("処理完了"))

	return nil
}
