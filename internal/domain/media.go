package domain

// MediaFile 描述一次扫描得到的候选媒体文件（只做 stat，不读内容）。
//
// 不变量（实现必须遵守）：
// - AbsPath 必须是 clean + absolute
// - Ext 已小写且来自固定允许列表
// - ExifBlock 只允许在 ParsedDate 非空之后设置
// - DstAbs 只有在 resolver 运行之后才有意义
//
// 生命周期：扫描时只填充路径/扩展名等固定字段；流水线各阶段逐步补全
// 可变字段；单次 run 结束后整个结构体即被丢弃（不跨 run 持久化）。
type MediaFile struct {
	AbsPath  string
	RelPath  string
	Filename string // base name（含扩展名）
	Ext      string // ".jpg"
	Size     int64
	ModUnix  int64

	ParsedDate *ParsedDateTime
	ExifBlock  []byte
	DstAbs     string
}
