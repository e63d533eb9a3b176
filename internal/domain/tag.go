package domain

// EXIF 日期相关标签 ID（TIFF tag 编号）。
const (
	TagDateTime          uint16 = 0x0132
	TagDateTimeOriginal  uint16 = 0x9003
	TagDateTimeDigitized uint16 = 0x9004
)

// TagKind 区分标签值能否按文本解读。
type TagKind int

const (
	TagText   TagKind = iota // 值为合法文本，看 Text
	TagBinary                // 无法按文本解码，看 Bytes
)

// TagValue 是检查器读出的单个日期标签值。
// Kind 为 TagText 时 Text 有效；为 TagBinary 时保留原始字节。
type TagValue struct {
	Kind  TagKind
	Text  string
	Bytes []byte
}

// TagMap 以标签 ID 索引已读出的日期标签，文件无 EXIF 时为空 map。
type TagMap map[uint16]TagValue
