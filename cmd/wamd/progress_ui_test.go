package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/config"
	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/domain"
)

func TestProgressUI_FileLines(t *testing.T) {
	buf := &bytes.Buffer{}
	p := newProgressUI(buf)

	p.OnStart(config.EffectiveConfig{InputPath: "/in", OutputPath: "/out", DryRun: true})
	p.OnPhaseDone("scan", map[string]any{"files": 3}, 10*time.Millisecond)
	p.OnFileDone(1, 3, "a.jpg", domain.ItemResult{
		File: "a.jpg", Status: domain.StatusStamped,
		Timestamp: "2023:06:15 00:00:00", Dst: "/out/a_1.jpg",
	}, time.Millisecond)
	p.OnFileDone(2, 3, "b.jpg", domain.ItemResult{
		File: "b.jpg", Status: domain.StatusSkipped, SkipReason: domain.SkipNoDateInFilename,
	}, time.Millisecond)
	p.OnFileDone(3, 3, "c.mp4", domain.ItemResult{
		File: "c.mp4", Status: domain.StatusFailed,
		ErrorCode: domain.ErrCodeDecodeFailed, ErrorMsg: "无法解析",
	}, time.Millisecond)

	out := buf.String()
	for _, want := range []string{
		"dry-run",
		"扫描: files=3",
		"[1/3] a.jpg STAMP 2023:06:15 00:00:00",
		"[2/3] b.jpg SKIP (文件名无日期)",
		"[3/3] c.mp4 FAIL decode_failed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("输出缺少 %q：\n%s", want, out)
		}
	}
}

func TestSkipReasonText(t *testing.T) {
	if got := skipReasonText(domain.SkipAlreadyHasDate); got != "EXIF 已有日期" {
		t.Fatalf("skipReasonText 不符合预期：%q", got)
	}
	// 未知原因原样返回。
	if got := skipReasonText("something_else"); got != "something_else" {
		t.Fatalf("未知原因应原样返回：%q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello world", 8); got != "hello..." {
		t.Fatalf("truncate 不符合预期：%q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("不超长时应原样返回：%q", got)
	}
}
