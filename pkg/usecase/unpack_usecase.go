package usecase

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/mutils/merr"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mi18n"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
)

const (
	POSITION_FILE_NAME   = "pos.txt"
	SECONDARY_FILE_NAME  = "pos_gan.txt"
	KEYPOINT_FILE_NAME   = "smoothed.txt"
	DEPTH_FILE_NAME      = "depth.txt"
	START_FRAME_FILE     = "start_frame.txt"
	UPRIGHT_FILE_NAME    = "upright.txt"
	UPRIGHT_CENTER_LABEL = "center"
)

// Unpack 対象ディレクトリの入力ファイルを読み込む
func Unpack(dirPath, uprightTargetDir string) (*model.Inputs, error) {
	mlog.I("Start: Unpack =============================")
	defer mlog.I("End: Unpack =============================")

	inputs := &model.Inputs{}
	var err error

	if inputs.Positions, err = ReadPositions(filepath.Join(dirPath, POSITION_FILE_NAME)); err != nil {
		return nil, err
	}

	if path := filepath.Join(dirPath, SECONDARY_FILE_NAME); existsFile(path) {
		if inputs.SecondaryPositions, err = ReadPositions(path); err != nil {
			return nil, err
		}
	}

	if inputs.Keypoints, err = ReadKeypoints(filepath.Join(dirPath, KEYPOINT_FILE_NAME)); err != nil {
		return nil, err
	}
	if len(inputs.Keypoints) < len(inputs.Positions) {
		return nil, errors.Wrapf(merr.InvalidInputError, "%s has %d frames, %s has %d frames",
			KEYPOINT_FILE_NAME, len(inputs.Keypoints), POSITION_FILE_NAME, len(inputs.Positions))
	}

	if path := filepath.Join(dirPath, DEPTH_FILE_NAME); existsFile(path) {
		if inputs.Depths, err = ReadDepths(path); err != nil {
			return nil, err
		}
	}

	if inputs.StartFrame, err = ReadStartFrame(filepath.Join(dirPath, START_FRAME_FILE)); err != nil {
		return nil, err
	}

	if inputs.UprightTarget, err = ReadUprightTarget(uprightTargetDir); err != nil {
		return nil, err
	}

	mlog.I(mi18n.T("開始フレーム", map[string]interface{}{"Frame": inputs.StartFrame}))

	return inputs, nil
}

func existsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// readLines 空行を除いた行を読み込む
func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()

	mlog.I(mi18n.T("入力読み込み", map[string]interface{}{"Path": path}))

	lines := make([]string, 0)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	return lines, nil
}

func trimAll(values []string) []string {
	return lo.Map(values, func(v string, _ int) string {
		return strings.TrimSpace(v)
	})
}

func parseFloats(values []string) ([]float64, error) {
	floats := make([]float64, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.Wrapf(merr.InvalidInputError, "invalid number %q", v)
		}
		floats[i] = f
	}
	return floats, nil
}

var jointSeparator = regexp.MustCompile(`,\s*`)

// ReadPositions 3D関節位置を読み込む。1行1フレームで、関節ごとに "index x y z"
// YとZは入れ替える
func ReadPositions(path string) ([]model.JointFrame, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	frames := make([]model.JointFrame, len(lines))
	for n, line := range lines {
		joints := 0
		for _, joint := range jointSeparator.Split(line, -1) {
			fields := strings.Fields(joint)
			if len(fields) == 0 {
				continue
			}
			if len(fields) < 4 || joints >= int(model.JOINT_COUNT) {
				return nil, errors.Wrapf(merr.InvalidInputError, "%s frame %d: invalid joint %q", path, n, joint)
			}
			values, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, errors.Wrapf(err, "%s frame %d", path, n)
			}
			frames[n][joints] = mmath.MVec3{values[0], values[2], values[1]}
			joints++
		}
		if joints != int(model.JOINT_COUNT) {
			return nil, errors.Wrapf(merr.InvalidInputError, "%s frame %d: %d joints", path, n, joints)
		}
	}

	return frames, nil
}

// keypointColumns 2Dキーポイントの(x,y)列
var keypointColumns = [model.KEYPOINT_COUNT][2]int{
	model.KP_NECK:        {2, 3},
	model.KP_RIGHT_HIP:   {16, 17},
	model.KP_LEFT_HIP:    {22, 23},
	model.KP_RIGHT_KNEE:  {18, 19},
	model.KP_LEFT_KNEE:   {24, 25},
	model.KP_RIGHT_ANKLE: {20, 21},
	model.KP_LEFT_ANKLE:  {26, 27},
}

// ReadKeypoints 2Dキーポイントを読み込む。1行1フレームの空白区切り
func ReadKeypoints(path string) ([]model.Keypoints2D, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	frames := make([]model.Keypoints2D, len(lines))
	for n, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 28 {
			return nil, errors.Wrapf(merr.InvalidInputError, "%s frame %d: %d columns", path, n, len(fields))
		}
		for k, columns := range keypointColumns {
			values, err := parseFloats([]string{fields[columns[0]], fields[columns[1]]})
			if err != nil {
				return nil, errors.Wrapf(err, "%s frame %d", path, n)
			}
			frames[n][k] = mmath.MVec2{values[0], values[1]}
		}
	}

	return frames, nil
}

// ReadDepths 深度を読み込む。"index, 腰, 右足首, 左足首" のCSV
func ReadDepths(path string) ([]model.DepthSample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()

	mlog.I(mi18n.T("入力読み込み", map[string]interface{}{"Path": path}))

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	depths := make([]model.DepthSample, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		if len(row) < 4 {
			return nil, errors.Wrapf(merr.InvalidInputError, "%s row %d: %d columns", path, len(depths), len(row))
		}

		index, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, errors.Wrapf(merr.InvalidInputError, "%s row %d: invalid index %q", path, len(depths), row[0])
		}
		values, err := parseFloats(trimAll(row[1:4]))
		if err != nil {
			return nil, errors.Wrapf(err, "%s row %d", path, len(depths))
		}

		depths = append(depths, model.DepthSample{
			Index: index, Waist: values[0], RightAnkle: values[1], LeftAnkle: values[2]})
	}

	return depths, nil
}

// ReadStartFrame 開始フレーム。ファイルがない場合は0
func ReadStartFrame(path string) (int, error) {
	if !existsFile(path) {
		return 0, nil
	}

	lines, err := readLines(path)
	if err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, nil
	}

	startFrame, err := strconv.Atoi(lines[0])
	if err != nil {
		return 0, errors.Wrapf(merr.InvalidInputError, "%s: invalid start frame %q", path, lines[0])
	}
	return startFrame, nil
}

// ReadUprightTarget 前回出力した直立情報を読み込む。ディレクトリ未指定・ファイルなしの場合はnil
func ReadUprightTarget(dirPath string) (*model.UprightTarget, error) {
	if dirPath == "" {
		return nil, nil
	}
	path := filepath.Join(dirPath, UPRIGHT_FILE_NAME)
	if !existsFile(path) {
		mlog.W("upright target not found: %s", path)
		return nil, nil
	}

	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errors.Wrapf(merr.InvalidInputError, "%s is empty", path)
	}

	target := &model.UprightTarget{}
	if target.UprightIndex, err = strconv.Atoi(lines[0]); err != nil {
		return nil, errors.Wrapf(merr.InvalidInputError, "%s: invalid upright index %q", path, lines[0])
	}

	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		if len(values) < 4 {
			return nil, errors.Wrapf(merr.InvalidInputError, "%s: invalid line %q", path, line)
		}
		position, err := parseFloats(trimAll(values[1:4]))
		if err != nil {
			return nil, errors.Wrapf(err, "%s", path)
		}

		label := strings.TrimSpace(values[0])
		if label == UPRIGHT_CENTER_LABEL {
			target.Center = mmath.MVec3{position[0], position[1], position[2]}
		} else if index, ok := model.KeypointIndexByName(label); ok {
			target.Keypoints[index] = mmath.MVec2{position[0], position[1]}
		}
	}

	return target, nil
}
