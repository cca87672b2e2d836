package merge

// SkipReason 附件被跳过的原因
type SkipReason string

// 跳过原因常量
const (
	// SkipFetchFailed 附件下载失败
	SkipFetchFailed SkipReason = "fetch_failed"

	// SkipInvalidPDF 附件PDF损坏或无法解析
	SkipInvalidPDF SkipReason = "invalid_pdf"

	// SkipUnsupportedImage 不支持的图片子类型（仅支持PNG/JPEG）
	SkipUnsupportedImage SkipReason = "unsupported_image"

	// SkipDecodeFailed 图片字节无法解码
	SkipDecodeFailed SkipReason = "decode_failed"
)

// SkippedAttachment 一条被跳过的附件记录
type SkippedAttachment struct {
	Index    int        `json:"index"`
	Filename string     `json:"filename"`
	FileType string     `json:"file_type"`
	Reason   SkipReason `json:"reason"`
	Detail   string     `json:"detail,omitempty"`
}

// AppendedSection 一段成功并入输出的附件内容
type AppendedSection struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	// PagesAdded 该附件贡献的页数（PDF附件含1页头页）
	PagesAdded int `json:"pages_added"`
}

// Report 一次合并的诊断信息
type Report struct {
	// MainPages 主文档页数
	MainPages int `json:"main_pages"`

	// TotalPages 输出文档总页数
	TotalPages int `json:"total_pages"`

	// SeparatorAdded 是否生成了附件分隔页
	SeparatorAdded bool `json:"separator_added"`

	// Appended 成功并入的附件，顺序与输入一致
	Appended []AppendedSection `json:"appended,omitempty"`

	// Skipped 被跳过的附件；单个附件失败永不中断整体合并
	Skipped []SkippedAttachment `json:"skipped,omitempty"`
}
