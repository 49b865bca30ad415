package model

import (
	"os"

	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// Config 変換パラメーター
type Config struct {
	// センターXY移動の倍率。0の場合は移動なし
	CenterXYScale float64 `json:"centerXYScale"`
	// センターZ移動の倍率。0の場合は移動なし
	CenterZScale float64 `json:"centerZScale"`
	SmoothTimes  int     `json:"smoothTimes"`
	// 上半身・下半身の前傾補正(度)
	XAngle float64 `json:"xAngle"`
	// 回転の間引き閾値(度)
	RotationDecimation float64 `json:"rotationDecimation"`
	// センター移動の間引き閾値
	CenterDecimation float64 `json:"centerDecimation"`
	// 足IK移動の間引き閾値
	IkDecimation float64 `json:"ikDecimation"`
	// 関連ボーンのキーフレームを揃えて間引くか
	Alignment     bool    `json:"alignment"`
	LegIk         bool    `json:"legIk"`
	HeelPosition  float64 `json:"heelPosition"`
	FrontYaw      float64 `json:"frontYaw"`
	BackYaw       float64 `json:"backYaw"`
	IkHoldPixels  float64 `json:"ikHoldPixels"`
	SecondaryDiff float64 `json:"secondaryDiff"`
	SecondaryTilt float64 `json:"secondaryTilt"`
	// 間引きの傾き角度差の閾値(度)
	CenterSlopeAngle float64 `json:"centerSlopeAngle"`
	IkSlopeAngle     float64 `json:"ikSlopeAngle"`
	// 直立フレームの候補数・間隔・件数
	UprightCandidates int `json:"uprightCandidates"`
	UprightSpacing    int `json:"uprightSpacing"`
	UprightCount      int `json:"uprightCount"`
	// 画角推定に使う直立フレーム数
	DepthCalibrationCount int `json:"depthCalibrationCount"`
	// 基準姿勢。未指定の場合は DefaultRestPose
	RestPose *JointFrame `json:"-"`
	// デバッグ時に途中経過のVMDを出力するディレクトリ。空の場合は出力しない
	DebugDir string `json:"-"`
}

func NewConfig() *Config {
	return &Config{
		SmoothTimes:           1,
		Alignment:             true,
		LegIk:                 true,
		FrontYaw:              30,
		BackYaw:               120,
		IkHoldPixels:          5,
		SecondaryDiff:         45,
		SecondaryTilt:         45,
		CenterSlopeAngle:      15,
		IkSlopeAngle:          20,
		UprightCandidates:     100,
		UprightSpacing:        30,
		UprightCount:          10,
		DepthCalibrationCount: 3,
	}
}

// LoadConfigFile json5の設定ファイルで上書きする
func (c *Config) LoadConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := json5.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "failed to parse config %s", path)
	}
	return nil
}

func (c *Config) IsDecimation() bool {
	return c.RotationDecimation > 0 || c.CenterDecimation > 0 || c.IkDecimation > 0
}

func (c *Config) RestPoseOrDefault() JointFrame {
	if c.RestPose != nil {
		return *c.RestPose
	}
	return DefaultRestPose()
}
