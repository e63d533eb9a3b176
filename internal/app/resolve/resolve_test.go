package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/domain"
)

func mediaFile(dir, name string) domain.MediaFile {
	return domain.MediaFile{
		AbsPath:  filepath.Join(dir, name),
		RelPath:  name,
		Filename: name,
		Ext:      filepath.Ext(name),
	}
}

func TestResolve_AlwaysSuffixedPath(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	tgt, err := Resolve(mediaFile(in, "a.jpg"), out, false, false, false)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !tgt.Proceed {
		t.Fatalf("无冲突时应继续，实际 reason=%q", tgt.Reason)
	}
	// 即使朴素路径空闲，也固定写到带后缀的路径。
	if want := filepath.Join(out, "a_1.jpg"); tgt.Path != want {
		t.Fatalf("期望 %q，实际 %q", want, tgt.Path)
	}
}

func TestResolve_NaiveConflictWithoutOverwrite(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	if err := os.WriteFile(filepath.Join(out, "a.jpg"), []byte("old"), 0o644); err != nil {
		t.Fatalf("准备冲突文件失败：%v", err)
	}

	tgt, err := Resolve(mediaFile(in, "a.jpg"), out, false, false, false)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if tgt.Proceed || tgt.Reason != domain.SkipDestinationExists {
		t.Fatalf("应按 destination_exists 跳过：%+v", tgt)
	}
}

func TestResolve_OverwriteRemovesNaive(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	naive := filepath.Join(out, "a.jpg")
	if err := os.WriteFile(naive, []byte("old"), 0o644); err != nil {
		t.Fatalf("准备冲突文件失败：%v", err)
	}

	tgt, err := Resolve(mediaFile(in, "a.jpg"), out, true, false, false)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !tgt.Proceed {
		t.Fatalf("overwrite 下应继续：%+v", tgt)
	}
	if _, err := os.Stat(naive); !os.IsNotExist(err) {
		t.Fatalf("朴素路径应已被删除：%v", err)
	}
	if want := filepath.Join(out, "a_1.jpg"); tgt.Path != want {
		t.Fatalf("期望 %q，实际 %q", want, tgt.Path)
	}
}

func TestResolve_KeepOriginalStillChecksConflict(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	src := mediaFile(in, "a.jpg")

	// 无冲突：写回源路径。
	tgt, err := Resolve(src, out, false, true, false)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !tgt.Proceed || tgt.Path != src.AbsPath {
		t.Fatalf("keepOriginal 应返回源路径：%+v", tgt)
	}

	// 冲突检查照常执行，即使路径最终与输出目录无关。
	if err := os.WriteFile(filepath.Join(out, "a.jpg"), []byte("old"), 0o644); err != nil {
		t.Fatalf("准备冲突文件失败：%v", err)
	}
	tgt, err = Resolve(src, out, false, true, false)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if tgt.Proceed || tgt.Reason != domain.SkipDestinationExists {
		t.Fatalf("keepOriginal 下冲突也应跳过：%+v", tgt)
	}
}

func TestResolve_DryRunTouchesNothing(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "not-created")

	tgt, err := Resolve(mediaFile(in, "a.jpg"), out, false, false, true)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !tgt.Proceed {
		t.Fatalf("dry-run 无冲突时应继续：%+v", tgt)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("dry-run 不应创建输出目录")
	}
}

func TestResolve_DryRunOverwriteKeepsNaive(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	naive := filepath.Join(out, "a.jpg")
	if err := os.WriteFile(naive, []byte("old"), 0o644); err != nil {
		t.Fatalf("准备冲突文件失败：%v", err)
	}

	tgt, err := Resolve(mediaFile(in, "a.jpg"), out, true, false, true)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !tgt.Proceed {
		t.Fatalf("dry-run overwrite 应继续：%+v", tgt)
	}
	if _, err := os.Stat(naive); err != nil {
		t.Fatalf("dry-run 不应删除朴素路径：%v", err)
	}
}

func TestDisambiguate(t *testing.T) {
	cases := map[string]string{
		"a.jpg":                  "a_1.jpg",
		"IMG-20230615-WA01.jpeg": "IMG-20230615-WA01_1.jpeg",
		"noext":                  "noext_1",
	}
	for in, want := range cases {
		if got := Disambiguate(in); got != want {
			t.Fatalf("Disambiguate(%q)=%q，期望 %q", in, got, want)
		}
	}
}
