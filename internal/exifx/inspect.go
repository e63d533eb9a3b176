// Package exifx 负责 EXIF 的读取、编码与 JPEG 段级拼接。
//
// 读取走 goexif，写入不依赖外部工具：日期标签的 APP1 段很小且结构
// 固定，直接按 TIFF 布局手工编码，再在段级别拼回 JPEG。
package exifx

import (
	"io"
	"os"
	"regexp"
	"unicode/utf8"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/domain"
)

// 判定 "已有日期" 的文本模式。EXIF 规范日期为 "YYYY:MM:DD ..."，
// 冒号设为可选以兼容个别去掉分隔符的写入器。
var datePattern = regexp.MustCompile(`\d{4}:?\d{2}:?\d{2}`)

var dateFieldIDs = map[exif.FieldName]uint16{
	exif.DateTime:          domain.TagDateTime,
	exif.DateTimeOriginal:  domain.TagDateTimeOriginal,
	exif.DateTimeDigitized: domain.TagDateTimeDigitized,
}

type dateTagWalker struct {
	tags domain.TagMap
}

func (w *dateTagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	id, ok := dateFieldIDs[name]
	if !ok {
		return nil
	}
	if s, err := tag.StringVal(); err == nil {
		w.tags[id] = domain.TagValue{Kind: domain.TagText, Text: s}
		return nil
	}
	if utf8.Valid(tag.Val) {
		w.tags[id] = domain.TagValue{Kind: domain.TagText, Text: string(tag.Val)}
		return nil
	}
	w.tags[id] = domain.TagValue{Kind: domain.TagBinary, Bytes: tag.Val}
	return nil
}

// DateTags 读出 r 中的日期类标签。r 不是带 EXIF 的图片时返回空 map，
// 不报错：检查器只回答 "有没有"，解码失败视同没有。
func DateTags(r io.Reader) domain.TagMap {
	w := &dateTagWalker{tags: domain.TagMap{}}
	x, err := exif.Decode(r)
	if err != nil {
		return w.tags
	}
	_ = x.Walk(w)
	return w.tags
}

// HasDate 报告 path 的 EXIF 中是否已存在日期值。
// 只有打开文件失败才返回 error，内容无法解码按 "无日期" 处理。
func HasDate(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	for _, v := range DateTags(f) {
		if v.Kind == domain.TagText && datePattern.MatchString(v.Text) {
			return true, nil
		}
	}
	return false, nil
}
