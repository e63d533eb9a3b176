// Package datename 从文件名中恢复拍摄日期。
//
// 规则刻意简单：取第一段连续 8 位数字按 YYYYMMDD 切分，不做日历校验；
// 时间部分可选，形如 "at HH.MM.SS"，缺失时默认 00:00:00。
package datename

import (
	"regexp"

	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/domain"
)

var (
	dateRE = regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`)
	timeRE = regexp.MustCompile(`at (\d{2})\.(\d{2})\.(\d{2})`)
)

// Parse 从文件名提取日期时间。第二个返回值为 false 表示文件名中没有
// 可用的 8 位日期段，此时调用方应按 "跳过" 处理而不是报错。
func Parse(filename string) (domain.ParsedDateTime, bool) {
	m := dateRE.FindStringSubmatch(filename)
	if m == nil {
		return domain.ParsedDateTime{}, false
	}
	p := domain.ParsedDateTime{
		Year:  atoi(m[1]),
		Month: atoi(m[2]),
		Day:   atoi(m[3]),
	}
	if tm := timeRE.FindStringSubmatch(filename); tm != nil {
		p.Hour = atoi(tm[1])
		p.Minute = atoi(tm[2])
		p.Second = atoi(tm[3])
	}
	return p, true
}

// atoi 只用于正则捕获组，输入保证为纯数字。
func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
