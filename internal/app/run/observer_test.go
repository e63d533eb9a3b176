package run

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/config"
	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/domain"
)

type recordObserver struct {
	mu sync.Mutex

	startCalls int
	phases     []string
	files      []string
}

func (o *recordObserver) OnStart(eff config.EffectiveConfig) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.startCalls++
}

func (o *recordObserver) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.phases = append(o.phases, name)
}

func (o *recordObserver) OnFileDone(idx, total int, file string, res domain.ItemResult, dur time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files = append(o.files, file)
}

func (o *recordObserver) OnProgress(done, total, stamped, skipped, failed int, current string, elapsed time.Duration) {
	// keepalive 由 CLI 触发；这里无需断言。
}

func TestExecute_EmitsPhaseAndFileEvents(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	name := "IMG-20230615-WA0001.jpg"
	if err := os.WriteFile(filepath.Join(in, name), mustTinyJPEG(t), 0o644); err != nil {
		t.Fatalf("写入测试文件失败：%v", err)
	}

	obs := &recordObserver{}
	_ = Execute(config.EffectiveConfig{
		InputPath:  in,
		OutputPath: out,
		DryRun:     true,
	}, obs)

	if obs.startCalls != 1 {
		t.Fatalf("期望 OnStart 调用 1 次，实际 %d", obs.startCalls)
	}
	if !reflect.DeepEqual(obs.phases, []string{"scan"}) {
		t.Fatalf("阶段事件不符合预期：%v", obs.phases)
	}
	if len(obs.files) != 1 || obs.files[0] != name {
		t.Fatalf("文件事件不符合预期：%v", obs.files)
	}
}

func TestExecute_NilObserver_SameResult(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	if err := os.WriteFile(filepath.Join(in, "IMG-20230615-WA0001.jpg"), mustTinyJPEG(t), 0o644); err != nil {
		t.Fatalf("写入测试文件失败：%v", err)
	}

	cfg := config.EffectiveConfig{
		InputPath:  in,
		OutputPath: out,
		DryRun:     true,
	}

	a := Execute(cfg, nil)
	b := Execute(cfg, &recordObserver{})

	// 时间字段本身允许有微小差异；对比时归零。
	a.StartedAt, a.FinishedAt = time.Time{}, time.Time{}
	b.StartedAt, b.FinishedAt = time.Time{}, time.Time{}

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("observer 不应改变结果：\n无=%+v\n有=%+v", a, b)
	}
}
