package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeMissingInput 表示 CLI 与配置文件都未提供 input_path。
	ErrCodeMissingInput = "config_missing_input"
	// ErrCodeMissingOutput 表示 CLI 与配置文件都未提供 output_path。
	ErrCodeMissingOutput = "config_missing_output"
)

// ConfigFileName 是可选配置文件名，固定从 cwd 读取。
const ConfigFileName = "wamd.json"

// CLIArgs 保留每个布尔项"是否显式指定"的信息。
// 这能保证覆盖优先级可实现：例如 --recursive=false 必须能覆盖 config.recursive=true。
type CLIArgs struct {
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

// FileConfig 对应 wamd.json 的解析结构。
// 布尔项用指针区分"未写"与"写了 false"。
type FileConfig struct {
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`

	Recursive        *bool `json:"recursive"`
	Overwrite        *bool `json:"overwrite"`
	KeepOriginalPath *bool `json:"keep_original_path"`
	DryRun           *bool `json:"dry_run"`

	ExcludeDirs []string `json:"exclude_dirs"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	InputPath  string
	OutputPath string

	Recursive        bool
	Overwrite        bool
	KeepOriginalPath bool
	DryRun           bool

	// ExcludeDirs 仅通过 wamd.json 配置，不暴露 CLI 参数。
	ExcludeDirs []string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeMissingInput:
		return fmt.Sprintf("%s：未提供 input_path（CLI --input_path 或 %s）", e.Code, ConfigFileName)
	case ErrCodeMissingOutput:
		return fmt.Sprintf("%s：未提供 output_path（CLI --output_path 或 %s）", e.Code, ConfigFileName)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取可选的 <cwd>/wamd.json，然后与 CLI 参数合并为最终配置。
//
// 覆盖优先级（固定）：
// - input_path / output_path：CLI > config；两者都缺则报对应错误
// - 布尔项：CLI 显式指定 > config 显式指定 > 默认 false
// - exclude_dirs：仅由 config 控制
//
// input_path 必须指向已存在的目录；output_path 不要求存在（运行时创建）。
// 两个路径都以 cwd 为基准规范化为绝对路径。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	cfgPath := filepath.Join(cwdAbs, ConfigFileName)
	fc, _, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	input := strings.TrimSpace(cli.InputPath)
	if input == "" {
		input = strings.TrimSpace(fc.InputPath)
	}
	if input == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeMissingInput, Path: cfgPath}
	}

	output := strings.TrimSpace(cli.OutputPath)
	if output == "" {
		output = strings.TrimSpace(fc.OutputPath)
	}
	if output == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeMissingOutput, Path: cfgPath}
	}

	inputAbs := absCleanFrom(cwdAbs, input)
	fi, err := os.Stat(inputAbs)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("input_path 不可用：%w", err)}
	}
	if !fi.IsDir() {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("input_path 不是目录：%q", inputAbs)}
	}

	return EffectiveConfig{
		InputPath:        inputAbs,
		OutputPath:       absCleanFrom(cwdAbs, output),
		Recursive:        mergeBool(cli.Recursive, cli.RecursiveSet, fc.Recursive),
		Overwrite:        mergeBool(cli.Overwrite, cli.OverwriteSet, fc.Overwrite),
		KeepOriginalPath: mergeBool(cli.KeepOriginalPath, cli.KeepOriginalPathSet, fc.KeepOriginalPath),
		DryRun:           mergeBool(cli.DryRun, cli.DryRunSet, fc.DryRun),
		ExcludeDirs:      append([]string(nil), fc.ExcludeDirs...),
	}, nil
}

// mergeBool：CLI 显式指定 > config 显式指定 > false。
func mergeBool(cliVal bool, cliSet bool, fileVal *bool) bool {
	if cliSet {
		return cliVal
	}
	if fileVal != nil {
		return *fileVal
	}
	return false
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
