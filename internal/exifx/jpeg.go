package exifx

import (
	"bytes"
	"fmt"
)

// JPEG 标记（只列出段解析需要的几个）。
const (
	markerSOI  = 0xD8
	markerAPP0 = 0xE0
	markerAPP1 = 0xE1
	markerSOS  = 0xDA
)

var exifPrefix = []byte("Exif\x00\x00")

// segment 是 SOS 之前的一个带长度段（不含 0xFF 和标记字节本身）。
type segment struct {
	marker byte
	body   []byte // 段长度字段之后的内容
}

// Stamp 把 app1（EncodeDateTags 的输出）拼接进 JPEG 字节流：
// 新 APP1 插在 APP0 之后（没有 APP0 则紧跟 SOI），原有的 Exif APP1
// 段被整体替换，SOS 及其后的压缩数据原样透传。
// src 不是合法 JPEG 时返回错误，输入切片不被修改。
func Stamp(src []byte, app1 []byte) ([]byte, error) {
	if len(src) < 4 || src[0] != 0xFF || src[1] != markerSOI {
		return nil, fmt.Errorf("不是 JPEG：缺少 SOI 标记")
	}

	var segs []segment
	pos := 2
	for {
		if pos+4 > len(src) {
			return nil, fmt.Errorf("JPEG 段结构损坏：偏移 %d 处数据不足", pos)
		}
		if src[pos] != 0xFF {
			return nil, fmt.Errorf("JPEG 段结构损坏：偏移 %d 处缺少标记前缀", pos)
		}
		marker := src[pos+1]
		if marker == markerSOS {
			break
		}
		length := int(src[pos+2])<<8 | int(src[pos+3])
		if length < 2 || pos+2+length > len(src) {
			return nil, fmt.Errorf("JPEG 段结构损坏：标记 0x%02X 的长度越界", marker)
		}
		segs = append(segs, segment{marker: marker, body: src[pos+4 : pos+2+length]})
		pos += 2 + length
	}
	tail := src[pos:] // SOS 起的所有字节

	out := &bytes.Buffer{}
	out.Write([]byte{0xFF, markerSOI})

	inserted := false
	writeApp1 := func() {
		out.Write([]byte{0xFF, markerAPP1})
		length := len(app1) + 2
		out.Write([]byte{byte(length >> 8), byte(length)})
		out.Write(app1)
		inserted = true
	}

	for i, s := range segs {
		if s.marker == markerAPP1 && bytes.HasPrefix(s.body, exifPrefix) {
			continue // 旧的 Exif 段丢弃，用新段替换
		}
		if i == 0 && s.marker == markerAPP0 {
			writeSegment(out, s)
			writeApp1()
			continue
		}
		if !inserted {
			writeApp1()
		}
		writeSegment(out, s)
	}
	if !inserted {
		writeApp1()
	}

	out.Write(tail)
	return out.Bytes(), nil
}

func writeSegment(out *bytes.Buffer, s segment) {
	out.Write([]byte{0xFF, s.marker})
	length := len(s.body) + 2
	out.Write([]byte{byte(length >> 8), byte(length)})
	out.Write(s.body)
}
