package domain

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	StatusStamped = "stamped"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// 跳过原因（status=skipped 时填充）。
const (
	SkipAlreadyHasDate    = "already_has_date"
	SkipNoDateInFilename  = "no_date_in_filename"
	SkipDestinationExists = "destination_exists"
)

const (
	ErrCodeDecodeFailed  = "decode_failed"
	ErrCodeIOFailed      = "io_failed"
	ErrCodeVerifyFailed  = "verify_failed"
	ErrCodeScanFailed    = "scan_failed"
	ErrCodeConfigInvalid = "config_invalid"

	ErrCodeConfigMissingInput  = "config_missing_input"
	ErrCodeConfigMissingOutput = "config_missing_output"
)

// RunReport 是对外稳定输出（report.json / stdout JSON）的结构。
type RunReport struct {
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`

	DryRun           bool `json:"dry_run"`
	Recursive        bool `json:"recursive"`
	Overwrite        bool `json:"overwrite"`
	KeepOriginalPath bool `json:"keep_original_path"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`
	Items   []ItemResult  `json:"items"`
}

type ReportSummary struct {
	Stamped int `json:"stamped"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type ItemResult struct {
	File string `json:"file"` // 相对输入目录的路径
	Dst  string `json:"dst"`

	Status     string `json:"status"`
	SkipReason string `json:"skip_reason"`
	ErrorCode  string `json:"error_code"`
	ErrorMsg   string `json:"error_msg"`

	Timestamp string `json:"timestamp"` // 写入的 EXIF 时间戳（仅 stamped）
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) items 稳定排序：按 file 字典序；file=="" 的条目排在最后
// 3) summary 由 items 计算得出
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	sort.SliceStable(r.Items, func(i, j int) bool {
		a := r.Items[i].File
		b := r.Items[j].File
		if a == "" && b == "" {
			return false
		}
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a < b
	})

	var s ReportSummary
	for _, it := range r.Items {
		switch it.Status {
		case StatusStamped:
			s.Stamped++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
	}
	r.Summary = s
}

// MarshalJSON 仅用于集中约束输出的稳定性（避免未来不小心引入非确定字段）。
// 当前只是透传 encoding/json 的默认行为。
func (r RunReport) MarshalJSON() ([]byte, error) {
	type Alias RunReport
	return json.Marshal(Alias(r))
}
