package exifx

import (
	"bytes"
	"encoding/binary"
)

// TIFF 字段类型（只用到这两种）。
const (
	tiffTypeASCII = 2
	tiffTypeLong  = 4
)

const tagExifIFDPointer = 0x8769

// EncodeDateTags 把一个 EXIF 时间戳编码为完整的 APP1 段载荷
// （含 "Exif\0\0" 前缀，不含 0xFFE1 标记和段长度）。
//
// 布局固定：小端 TIFF，IFD0 只有一个指向 Exif IFD 的指针项，
// Exif IFD 含 DateTimeOriginal(0x9003) 和 DateTimeDigitized(0x9004)
// 两个 ASCII 项，两个值各自独立存放。ts 形如 "YYYY:MM:DD HH:MM:SS"。
func EncodeDateTags(ts string) []byte {
	val := append([]byte(ts), 0x00) // ASCII 值必须以 NUL 结尾
	n := uint32(len(val))

	const (
		ifd0Off    = 8
		exifIFDOff = 26 // ifd0Off + 2 + 1*12 + 4
		valueOff   = 56 // exifIFDOff + 2 + 2*12 + 4
	)

	buf := &bytes.Buffer{}
	buf.WriteString("Exif\x00\x00")

	tiff := &bytes.Buffer{}
	le := binary.LittleEndian

	// TIFF 头
	tiff.WriteString("II")
	binary.Write(tiff, le, uint16(0x002A))
	binary.Write(tiff, le, uint32(ifd0Off))

	// IFD0：仅一项，指向 Exif IFD
	binary.Write(tiff, le, uint16(1))
	binary.Write(tiff, le, uint16(tagExifIFDPointer))
	binary.Write(tiff, le, uint16(tiffTypeLong))
	binary.Write(tiff, le, uint32(1))
	binary.Write(tiff, le, uint32(exifIFDOff))
	binary.Write(tiff, le, uint32(0)) // 无下一个 IFD

	// Exif IFD：两个日期项
	binary.Write(tiff, le, uint16(2))
	for i, tag := range []uint16{0x9003, 0x9004} {
		binary.Write(tiff, le, tag)
		binary.Write(tiff, le, uint16(tiffTypeASCII))
		binary.Write(tiff, le, n)
		binary.Write(tiff, le, uint32(valueOff)+uint32(i)*n)
	}
	binary.Write(tiff, le, uint32(0))

	// 值区：两份独立拷贝
	tiff.Write(val)
	tiff.Write(val)

	buf.Write(tiff.Bytes())
	return buf.Bytes()
}
