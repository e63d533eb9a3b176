package domain

import "fmt"

// ParsedDateTime 是从文件名恢复出来的日期时间。
// 各字段按文本原样保留，不做日历校验（13 月 40 日照样通过）。
type ParsedDateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// Timestamp 按 EXIF ASCII 规范格式化："YYYY:MM:DD HH:MM:SS"。
func (p ParsedDateTime) Timestamp() string {
	return fmt.Sprintf("%04d:%02d:%02d %02d:%02d:%02d",
		p.Year, p.Month, p.Day, p.Hour, p.Minute, p.Second)
}
