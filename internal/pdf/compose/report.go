package compose

import "github.com/qiushui-dev/inkseal/internal/model"

// SkipReason 签署域被跳过或降级的原因
type SkipReason string

// 跳过原因常量
const (
	// SkipNoSignedValue 域没有匹配的签署值（可选域未填写，非错误）
	SkipNoSignedValue SkipReason = "no_signed_value"

	// SkipEmptyValue 签署值存在但对应载荷为空
	SkipEmptyValue SkipReason = "empty_value"

	// SkipPageOutOfRange 域引用的页码超出文档范围
	SkipPageOutOfRange SkipReason = "page_out_of_range"

	// SkipCheckboxUnchecked 勾选框未勾选
	SkipCheckboxUnchecked SkipReason = "checkbox_unchecked"

	// ReasonImageFallback 签名图片无法解码，已降级为文字占位
	ReasonImageFallback SkipReason = "image_fallback"
)

// SkippedField 一条被跳过或降级的域记录
type SkippedField struct {
	RequestID string          `json:"request_id"`
	FieldID   string          `json:"field_id"`
	Type      model.FieldType `json:"type"`
	Page      int             `json:"page"`
	Reason    SkipReason      `json:"reason"`
}

// Report 一次合成的诊断信息
// 跳过与降级都不致命，但对调用方可见，便于发现上游数据问题
type Report struct {
	// PageCount 输出文档页数（与源文档一致）
	PageCount int `json:"page_count"`

	// RenderedFields 实际渲染的域数量
	RenderedFields int `json:"rendered_fields"`

	// AuditEntries 审计记录条数（等于已签署请求数）
	AuditEntries int `json:"audit_entries"`

	// Skipped 被跳过的域
	Skipped []SkippedField `json:"skipped,omitempty"`

	// Fallbacks 降级为文字占位的域
	Fallbacks []SkippedField `json:"fallbacks,omitempty"`
}

func (r *Report) addSkip(requestID string, field *model.SignatureField, reason SkipReason) {
	r.Skipped = append(r.Skipped, SkippedField{
		RequestID: requestID,
		FieldID:   field.ID,
		Type:      field.Type,
		Page:      field.Page,
		Reason:    reason,
	})
}

func (r *Report) addFallback(requestID string, field *model.SignatureField) {
	r.Fallbacks = append(r.Fallbacks, SkippedField{
		RequestID: requestID,
		FieldID:   field.ID,
		Type:      field.Type,
		Page:      field.Page,
		Reason:    ReasonImageFallback,
	})
}
