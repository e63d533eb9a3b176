// Package resolve 决定单个文件的落盘路径。
package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/domain"
)

// Target 是一次路径决议的结果。Proceed=false 表示按 Reason 跳过，
// 这不是错误：错误只在目录创建或删除等 IO 动作失败时返回。
type Target struct {
	Path    string
	Proceed bool
	Reason  string // Proceed=false 时为 domain.Skip* 之一
}

// Resolve 为 f 决定写入路径。
//
// 步骤顺序固定（keepOriginal 也要走完冲突检查）：
// 1) 确保输出目录存在
// 2) 计算朴素路径 outDir/<文件名>
// 3) 朴素路径已存在且未开 overwrite：跳过
// 4) 朴素路径已存在且开了 overwrite：删除朴素路径
// 5) keepOriginal 时写回源路径，否则写到带 "_1" 后缀的路径
//
// 带 "_1" 的路径无条件使用，不检查占用也不递增序号。
// dryRun 时跳过步骤 1 和 4 的实际 IO，仅做存在性检查。
func Resolve(f domain.MediaFile, outDir string, overwrite, keepOriginal, dryRun bool) (Target, error) {
	if !dryRun {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return Target{}, err
		}
	}

	naive := filepath.Join(outDir, f.Filename)
	if _, err := os.Stat(naive); err == nil {
		if !overwrite {
			return Target{Reason: domain.SkipDestinationExists}, nil
		}
		if !dryRun {
			if err := os.Remove(naive); err != nil {
				return Target{}, err
			}
		}
	}

	if keepOriginal {
		return Target{Path: f.AbsPath, Proceed: true}, nil
	}
	return Target{Path: filepath.Join(outDir, Disambiguate(f.Filename)), Proceed: true}, nil
}

// Disambiguate 在扩展名前插入 "_1"："a.jpg" -> "a_1.jpg"。
func Disambiguate(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + "_1" + ext
}
