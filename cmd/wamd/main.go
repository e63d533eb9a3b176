package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/app/run"
	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/config"
	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/domain"
	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/infra/fsx"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 || isHelp(args[0]) {
		printUsage()
		return
	}

	switch args[0] {
	case "run":
		if code := runCmd(args[1:]); code != 0 {
			os.Exit(code)
		}
	default:
		fmt.Fprintf(os.Stderr, "未知命令：%q\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func runCmd(args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printRunUsage()
			return 0
		}
	}

	ra, err := parseRunArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printRunUsage()
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return 1
	}
	cwdAbs, _ := filepath.Abs(cwd)

	eff, err := config.LoadEffective(cwd, ra.toCLIArgs())
	if err != nil {
		rr := reportForConfigError(cwdAbs, ra, err)
		emitReport(rr)
		return 1
	}

	progressW, interactive := pickProgressWriter()
	var obs run.Observer
	if interactive {
		obs = newProgressUI(progressW)
	}

	rr := run.Execute(eff, obs)

	// 非 dry-run：把 report.json 写到输出目录；dry-run 禁止落盘。
	if !eff.DryRun {
		if err := writeReportFile(eff.OutputPath, rr); err != nil {
			fmt.Fprintf(os.Stderr, "写入 report.json 失败：%v\n", err)
			emitReport(rr)
			return 1
		}
	}

	emitReport(rr)
	if interactive {
		emitLocations(progressW, eff)
	}
	if rr.Summary.Failed == 0 {
		return 0
	}
	return 1
}

type runArgs struct {
	InputPath  string
	OutputPath string

	Recursive    bool
	RecursiveSet bool

	Overwrite    bool
	OverwriteSet bool

	KeepOriginalPath    bool
	KeepOriginalPathSet bool

	DryRun    bool
	DryRunSet bool
}

func (ra runArgs) toCLIArgs() config.CLIArgs {
	return config.CLIArgs{
		InputPath:           ra.InputPath,
		OutputPath:          ra.OutputPath,
		Recursive:           ra.Recursive,
		RecursiveSet:        ra.RecursiveSet,
		Overwrite:           ra.Overwrite,
		OverwriteSet:        ra.OverwriteSet,
		KeepOriginalPath:    ra.KeepOriginalPath,
		KeepOriginalPathSet: ra.KeepOriginalPathSet,
		DryRun:              ra.DryRun,
		DryRunSet:           ra.DryRunSet,
	}
}

func parseRunArgs(args []string) (runArgs, error) {
	ra := runArgs{}

	setBool := func(val *bool, set *bool, name, raw string, hasValue bool) error {
		*set = true
		if !hasValue {
			*val = true
			return nil
		}
		switch raw {
		case "true":
			*val = true
		case "false":
			*val = false
		default:
			return fmt.Errorf("%s 只能是 true 或 false，实际是 %q", name, raw)
		}
		return nil
	}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--input_path":
			if i+1 >= len(args) {
				return runArgs{}, fmt.Errorf("--input_path 需要一个值")
			}
			i++
			ra.InputPath = args[i]
		case strings.HasPrefix(a, "--input_path="):
			ra.InputPath = strings.TrimPrefix(a, "--input_path=")
		case a == "--output_path":
			if i+1 >= len(args) {
				return runArgs{}, fmt.Errorf("--output_path 需要一个值")
			}
			i++
			ra.OutputPath = args[i]
		case strings.HasPrefix(a, "--output_path="):
			ra.OutputPath = strings.TrimPrefix(a, "--output_path=")
		case a == "--recursive":
			if err := setBool(&ra.Recursive, &ra.RecursiveSet, "--recursive", "", false); err != nil {
				return runArgs{}, err
			}
		case strings.HasPrefix(a, "--recursive="):
			if err := setBool(&ra.Recursive, &ra.RecursiveSet, "--recursive", strings.TrimPrefix(a, "--recursive="), true); err != nil {
				return runArgs{}, err
			}
		case a == "--overwrite":
			if err := setBool(&ra.Overwrite, &ra.OverwriteSet, "--overwrite", "", false); err != nil {
				return runArgs{}, err
			}
		case strings.HasPrefix(a, "--overwrite="):
			if err := setBool(&ra.Overwrite, &ra.OverwriteSet, "--overwrite", strings.TrimPrefix(a, "--overwrite="), true); err != nil {
				return runArgs{}, err
			}
		case a == "--keep_original_path":
			if err := setBool(&ra.KeepOriginalPath, &ra.KeepOriginalPathSet, "--keep_original_path", "", false); err != nil {
				return runArgs{}, err
			}
		case strings.HasPrefix(a, "--keep_original_path="):
			if err := setBool(&ra.KeepOriginalPath, &ra.KeepOriginalPathSet, "--keep_original_path", strings.TrimPrefix(a, "--keep_original_path="), true); err != nil {
				return runArgs{}, err
			}
		case a == "--dry_run":
			if err := setBool(&ra.DryRun, &ra.DryRunSet, "--dry_run", "", false); err != nil {
				return runArgs{}, err
			}
		case strings.HasPrefix(a, "--dry_run="):
			if err := setBool(&ra.DryRun, &ra.DryRunSet, "--dry_run", strings.TrimPrefix(a, "--dry_run="), true); err != nil {
				return runArgs{}, err
			}
		default:
			return runArgs{}, fmt.Errorf("未知参数 %q", a)
		}
	}

	return ra, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprint(os.Stdout, `用法：
  wamd run --input_path <目录> --output_path <目录> [选项]

命令：
  run    为文件名带日期的媒体文件补写 EXIF 日期

使用 "wamd run --help" 查看详细说明。
`)
}

func printRunUsage() {
	fmt.Fprint(os.Stdout, `用法：
  wamd run --input_path <目录> --output_path <目录> [选项]

参数：
  --input_path          输入目录（必填，可由 wamd.json 提供）
  --output_path         输出目录（必填，可由 wamd.json 提供；不存在时自动创建）
  --recursive           递归扫描子目录
  --overwrite           输出目录存在同名文件时先删除再写
  --keep_original_path  直接写回源文件路径（仍执行同名冲突检查）
  --dry_run             只决策不落盘
  -h, --help            显示帮助

布尔参数均支持 --flag=false 覆盖 wamd.json 中的 true。
`)
}

func emitReport(rr domain.RunReport) {
	if isTTY(os.Stdout) {
		fmt.Fprintf(os.Stdout, "完成：stamped=%d skipped=%d failed=%d\n",
			rr.Summary.Stamped, rr.Summary.Skipped, rr.Summary.Failed,
		)
		if rr.Summary.Failed > 0 {
			for _, it := range rr.Items {
				if it.Status != domain.StatusFailed {
					continue
				}
				key := it.File
				if key == "" {
					key = "<run>"
				}
				fmt.Fprintf(os.Stderr, "%s %s: %s\n", key, it.ErrorCode, it.ErrorMsg)
			}
		}
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 RunReport JSON（日志/摘要走 stderr）。
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(rr)
	fmt.Fprintf(os.Stderr, "完成：stamped=%d skipped=%d failed=%d\n",
		rr.Summary.Stamped, rr.Summary.Skipped, rr.Summary.Failed,
	)
}

func reportForConfigError(cwdAbs string, ra runArgs, err error) domain.RunReport {
	now := time.Now().UTC()
	rr := domain.RunReport{
		InputPath:  ra.InputPath,
		OutputPath: ra.OutputPath,
		DryRun:     ra.DryRunSet && ra.DryRun,
		StartedAt:  now,
		FinishedAt: now,
		Items: []domain.ItemResult{{
			File:      "",
			Status:    domain.StatusFailed,
			ErrorCode: config.Code(err),
			ErrorMsg:  err.Error(),
		}},
	}
	if rr.InputPath == "" {
		rr.InputPath = cwdAbs
	}
	rr.Finalize()
	return rr
}

func writeReportFile(outDir string, rr domain.RunReport) error {
	b, err := json.MarshalIndent(rr, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return fsx.WriteFileAtomicReplace(outDir, "report.json", b)
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func pickProgressWriter() (io.Writer, bool) {
	// 进度输出只在交互终端启用；默认走 stderr（不污染 stdout JSON）。
	if isTTY(os.Stderr) {
		return os.Stderr, true
	}
	// 某些环境（例如仅重定向 stderr）下，stdout 仍是 TTY：退化输出到 stdout。
	if isTTY(os.Stdout) {
		return os.Stdout, true
	}
	return nil, false
}

func emitLocations(w io.Writer, eff config.EffectiveConfig) {
	// 这两行用于降低"完成后不知道产物在哪"的摩擦，且不影响 stdout JSON 契约。
	if w == nil {
		return
	}
	if !eff.DryRun {
		fmt.Fprintf(w, "report: %s\n", filepath.Join(eff.OutputPath, "report.json"))
	}
	fmt.Fprintf(w, "out: %s\n", eff.OutputPath)
}
