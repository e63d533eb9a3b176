package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/domain"
)

// ScanMedia 扫描 root 下的候选媒体文件。
//
// 规则（硬约束）：
// - 扩展名允许列表固定为 jpeg/jpg/mp4（大小写不敏感）
// - recursive=false 时只看 root 顶层
// - excludeDirs：来自配置文件，均视为相对 root 的路径（若是绝对路径，则按绝对路径处理）
// - 输出目录不做永久排除：重复执行时对已写出文件的再次扫描由
//   "已有日期" 判定来幂等地跳过
//
// 注意：扫描阶段只做 stat（DirEntry.Info），不读文件内容。
func ScanMedia(root string, recursive bool, excludeDirs []string) ([]domain.MediaFile, error) {
	root = filepath.Clean(root)
	if !recursive {
		return scanTopLevel(root)
	}
	excluded := buildExcluded(root, excludeDirs)

	files := make([]domain.MediaFile, 0, 128)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		// 统一的排除判断：目录用 SkipDir，文件则直接跳过。
		if isExcluded(path, excluded) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !isMediaExt(strings.ToLower(filepath.Ext(d.Name()))) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		f, err := newMediaFile(root, path, info)
		if err != nil {
			return err
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 强制稳定输出，避免不同平台/文件系统行为差异带来的不确定性。
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

func scanTopLevel(root string) ([]domain.MediaFile, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	files := make([]domain.MediaFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !isMediaExt(strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		f, err := newMediaFile(root, filepath.Join(root, e.Name()), info)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

func newMediaFile(root, path string, info fs.FileInfo) (domain.MediaFile, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return domain.MediaFile{}, err
	}
	name := filepath.Base(path)
	return domain.MediaFile{
		AbsPath:  path,
		RelPath:  rel,
		Filename: name,
		Ext:      strings.ToLower(filepath.Ext(name)),
		Size:     info.Size(),
		ModUnix:  info.ModTime().Unix(),
	}, nil
}

func isMediaExt(ext string) bool {
	switch ext {
	case ".jpeg", ".jpg", ".mp4":
		return true
	default:
		return false
	}
}

func buildExcluded(root string, excludeDirs []string) []string {
	excluded := make([]string, 0, len(excludeDirs))
	for _, x := range excludeDirs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		if filepath.IsAbs(x) {
			excluded = append(excluded, filepath.Clean(x))
			continue
		}
		// x 是相对路径：相对 root。
		excluded = append(excluded, filepath.Clean(filepath.Join(root, x)))
	}

	// 排除列表排序后，isExcluded 的行为更可预测（且便于测试）。
	sort.Strings(excluded)
	return excluded
}

func isExcluded(path string, excluded []string) bool {
	path = filepath.Clean(path)
	for _, base := range excluded {
		if isUnder(path, base) {
			return true
		}
	}
	return false
}

func isUnder(path, base string) bool {
	if path == base {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(path, base+sep)
}
