package datename

import (
	"testing"

	"github.com/Tiago-Ferreira-Git/whatsapp-media-date-to-exif/internal/domain"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want domain.ParsedDateTime
		ok   bool
	}{
		{
			name: "标准 WhatsApp 图片名",
			in:   "IMG-20230615-WA0001.jpg",
			want: domain.ParsedDateTime{Year: 2023, Month: 6, Day: 15},
			ok:   true,
		},
		{
			name: "带时间段",
			in:   "Photo 20230615 at 14.30.45.jpg",
			want: domain.ParsedDateTime{Year: 2023, Month: 6, Day: 15, Hour: 14, Minute: 30, Second: 45},
			ok:   true,
		},
		{
			name: "无日期段",
			in:   "random-photo.jpg",
			ok:   false,
		},
		{
			name: "七位数字不够",
			in:   "IMG-2023061.jpg",
			ok:   false,
		},
		{
			name: "非法月份照样通过（不做日历校验）",
			in:   "IMG-20239940.jpg",
			want: domain.ParsedDateTime{Year: 2023, Month: 99, Day: 40},
			ok:   true,
		},
		{
			name: "多段数字取第一段",
			in:   "20230101-20241231.jpg",
			want: domain.ParsedDateTime{Year: 2023, Month: 1, Day: 1},
			ok:   true,
		},
		{
			name: "时间格式不符则回退 00:00:00",
			in:   "20230615 at 14-30-45.jpg",
			want: domain.ParsedDateTime{Year: 2023, Month: 6, Day: 15},
			ok:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Parse(tc.in)
			if ok != tc.ok {
				t.Fatalf("Parse(%q) ok=%v，期望 %v", tc.in, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("Parse(%q)=%+v，期望 %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParse_TimestampRoundTrip(t *testing.T) {
	p, ok := Parse("VID-20231224-WA0099 at 08.01.02.mp4")
	if !ok {
		t.Fatalf("应能解析出日期")
	}
	if got := p.Timestamp(); got != "2023:12:24 08:01:02" {
		t.Fatalf("Timestamp=%q，期望 2023:12:24 08:01:02", got)
	}
}
