package run

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/app/resolve"
	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/config"
	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/datename"
	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/domain"
	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/exifx"
	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/infra/fsx"
	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/scan"
)

// Execute 执行一次完整的批处理，并返回对外稳定的 RunReport。
// 该函数尽量把错误"降级"为 item 级失败（单个文件失败不影响其他），
// 一旦开始就不中途取消：每个文件要么完整写出要么不写。
func Execute(eff config.EffectiveConfig, obs Observer) domain.RunReport {
	started := time.Now().UTC()

	if obs != nil {
		obs.OnStart(eff)
	}

	rr := domain.RunReport{
		InputPath:        eff.InputPath,
		OutputPath:       eff.OutputPath,
		DryRun:           eff.DryRun,
		Recursive:        eff.Recursive,
		Overwrite:        eff.Overwrite,
		KeepOriginalPath: eff.KeepOriginalPath,
		StartedAt:        started,
		Items:            make([]domain.ItemResult, 0, 128),
	}

	scanStarted := time.Now()
	files, err := scan.ScanMedia(eff.InputPath, eff.Recursive, eff.ExcludeDirs)
	if err != nil {
		rr.Items = append(rr.Items, syntheticFailed(domain.ErrCodeScanFailed, fmt.Sprintf("扫描失败：%v", err)))
		rr.FinishedAt = time.Now().UTC()
		rr.Finalize()
		return rr
	}
	if obs != nil {
		obs.OnPhaseDone("scan", map[string]any{"files": len(files)}, time.Since(scanStarted))
	}

	// 顺序逐个处理：文件写出本身是 IO 密集且每个文件很快，
	// 顺序执行让行为完全可预测（输出顺序稳定、冲突检查无竞态）。
	for i, f := range files {
		oneStarted := time.Now()
		res := execOne(eff, f)
		rr.Items = append(rr.Items, res)
		if obs != nil {
			obs.OnFileDone(i+1, len(files), f.RelPath, res, time.Since(oneStarted))
		}
	}

	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr
}

// execOne 对单个文件执行完整流水线：
// 检查已有日期 -> 文件名解析 -> 编码 EXIF -> 路径决议 -> 写出 -> 回读校验。
// 任何一步失败只影响该文件。
func execOne(eff config.EffectiveConfig, f domain.MediaFile) domain.ItemResult {
	item := domain.ItemResult{
		File:   f.RelPath,
		Status: domain.StatusStamped, // 失败/跳过时覆盖
	}

	has, err := exifx.HasDate(f.AbsPath)
	if err != nil {
		return failed(item, domain.ErrCodeIOFailed, fmt.Sprintf("读取文件失败：%v", err))
	}
	if has {
		return skipped(item, domain.SkipAlreadyHasDate)
	}

	parsed, ok := datename.Parse(f.Filename)
	if !ok {
		return skipped(item, domain.SkipNoDateInFilename)
	}
	f.ParsedDate = &parsed
	item.Timestamp = parsed.Timestamp()

	f.ExifBlock = exifx.EncodeDateTags(item.Timestamp)

	tgt, err := resolve.Resolve(f, eff.OutputPath, eff.Overwrite, eff.KeepOriginalPath, eff.DryRun)
	if err != nil {
		return failed(item, domain.ErrCodeIOFailed, fmt.Sprintf("路径决议失败：%v", err))
	}
	if !tgt.Proceed {
		return skipped(item, tgt.Reason)
	}
	f.DstAbs = tgt.Path
	item.Dst = tgt.Path

	// dry-run：到这里已验证完整决策链，不再碰磁盘。
	if eff.DryRun {
		return item
	}

	src, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return failed(item, domain.ErrCodeIOFailed, fmt.Sprintf("读取文件失败：%v", err))
	}

	stamped, err := exifx.Stamp(src, f.ExifBlock)
	if err != nil {
		return failed(item, domain.ErrCodeDecodeFailed, fmt.Sprintf("无法解析媒体内容：%v", err))
	}

	if err := fsx.WriteFileAtomicReplace(filepath.Dir(f.DstAbs), filepath.Base(f.DstAbs), stamped); err != nil {
		return failed(item, domain.ErrCodeIOFailed, fmt.Sprintf("写出失败：%v", err))
	}

	// 回读校验：写出的文件必须能由检查器读到日期，否则按失败处理。
	has, err = exifx.HasDate(f.DstAbs)
	if err != nil {
		return failed(item, domain.ErrCodeVerifyFailed, fmt.Sprintf("回读校验失败：%v", err))
	}
	if !has {
		return failed(item, domain.ErrCodeVerifyFailed, fmt.Sprintf("写出后检查器未读到日期：%q", f.DstAbs))
	}

	return item
}

func skipped(item domain.ItemResult, reason string) domain.ItemResult {
	item.Status = domain.StatusSkipped
	item.SkipReason = reason
	item.Dst = ""
	item.Timestamp = ""
	return item
}

func failed(item domain.ItemResult, code, msg string) domain.ItemResult {
	item.Status = domain.StatusFailed
	item.ErrorCode = code
	item.ErrorMsg = msg
	return item
}

// syntheticFailed 用于没有对应输入文件的失败（扫描/配置等）。
func syntheticFailed(code, msg string) domain.ItemResult {
	return domain.ItemResult{
		File:      "",
		Status:    domain.StatusFailed,
		ErrorCode: code,
		ErrorMsg:  msg,
	}
}
