package model

import "time"

// Document 可签署文档
// 标识底层PDF文件，创建后不可变，可被多个签署请求引用
type Document struct {
	// ID 文档唯一标识
	ID string `json:"id" validate:"required"`

	// Name 文档展示名称
	Name string `json:"name,omitempty"`

	// FileKey 对象存储中的键，由存储层换取带签名的下载URL
	FileKey string `json:"file_key,omitempty"`

	// FileURL 可直接下载的URL（存储层生成的预签名URL，约1小时有效）
	FileURL string `json:"file_url,omitempty"`

	// ContentType 文件MIME类型
	ContentType string `json:"content_type,omitempty"`
}

// HasFile 文档是否有可获取的文件内容
func (d *Document) HasFile() bool {
	return d.FileURL != "" || d.FileKey != ""
}

// Attachment 附件文件
// 附件归签署流程所有，合并器只按URL只读获取
type Attachment struct {
	// URL 可获取的下载地址
	URL string `json:"url" validate:"required"`

	// Filename 原始文件名
	Filename string `json:"filename" validate:"required"`

	// FileType MIME类型，如 application/pdf、image/png
	FileType string `json:"file_type" validate:"required"`

	// UploadedBy 上传者（可选）
	UploadedBy string `json:"uploaded_by,omitempty"`

	// UploadedAt 上传时间（可选）
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
}
