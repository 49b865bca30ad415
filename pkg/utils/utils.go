package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mi18n"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

func NewProgressBar(total int) *pb.ProgressBar {
	// ShowElapsedTime, ShowTimeLeft が経過時間と残り時間を表示するためのオプションです

	// プログレスバーのカスタムテンプレートを設定
	template := `{{ string . "prefix" }} {{counters . "%s/%s" "%s/?"}} {{bar . }} {{percent . "%.03f%%" "?"}} {{etime . "%s elapsed"}} {{rtime . "%s remain" "%s total" "???"}}`

	// プログレスバーの作成
	bar := pb.ProgressBarTemplate(template).Start(total)

	return bar
}

// OutputMotion 出力するモーションとファイル名の接尾辞
type OutputMotion struct {
	Suffix string
	State  *vmd.AnimationState
}

// VmdFilePath 出力先ディレクトリのVMDファイルパス
func VmdFilePath(dirPath, baseName, suffix string) string {
	if suffix == "" {
		return filepath.Join(dirPath, fmt.Sprintf("%s.vmd", baseName))
	}
	return filepath.Join(dirPath, fmt.Sprintf("%s_%s.vmd", baseName, suffix))
}

// WriteVmdMotions モーションを並列に出力する。失敗したものはまとめて返す
func WriteVmdMotions(motions []*OutputMotion, dirPath, baseName, modelName string) error {
	errCh := make(chan error, len(motions))
	var wg sync.WaitGroup

	for i, motion := range motions {
		wg.Add(1)
		go func(i int, motion *OutputMotion) {
			defer wg.Done()

			path := VmdFilePath(dirPath, baseName, motion.Suffix)
			if modelName != "" {
				motion.State.ModelName = modelName
			}

			if err := vmd.Write(path, motion.State); err != nil {
				mlog.E("Failed to write vmd [%d/%d]: %v", i+1, len(motions), err)
				errCh <- err
				return
			}
			mlog.I(mi18n.T("出力完了", map[string]interface{}{"Path": path}))
		}(i, motion)
	}

	wg.Wait()
	close(errCh)

	var errs error
	for err := range errCh {
		errs = multierr.Append(errs, err)
	}

	return errs
}

// WriteUprightTarget 次回の実行で使う直立情報を出力する
func WriteUprightTarget(path string, target *model.UprightTarget) error {
	lines := []string{
		fmt.Sprintf("%d", target.UprightIndex),
		fmt.Sprintf("center,%f,%f,%f", target.Center.GetX(), target.Center.GetY(), target.Center.GetZ()),
	}
	for i, keypoint := range target.Keypoints {
		lines = append(lines, fmt.Sprintf("%s,%f,%f,0",
			model.KeypointIndex(i).String(), keypoint.GetX(), keypoint.GetY()))
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		return errors.Wrapf(err, "failed to write upright target %s", path)
	}

	mlog.I(mi18n.T("出力完了", map[string]interface{}{"Path": path}))
	return nil
}

// WriteComplete 処理が最後まで終わったことを示す空ファイル
func WriteComplete(dirPath string) error {
	path := filepath.Join(dirPath, "complete")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create complete file %s", path)
	}
	return f.Close()
}
