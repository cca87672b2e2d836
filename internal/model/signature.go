package model

import "time"

// FieldType 签署域类型
type FieldType string

// 签署域类型常量
const (
	FieldTypeSignature FieldType = "signature"
	FieldTypeDate      FieldType = "date"
	FieldTypeText      FieldType = "text"
	FieldTypeCheckbox  FieldType = "checkbox"
)

// 签署域默认尺寸（点）
const (
	DefaultFieldWidth      = 180.0
	DefaultSignatureHeight = 60.0
	DefaultFieldHeight     = 40.0
)

// RequestStatus 签署请求状态
type RequestStatus string

// 签署请求状态常量
const (
	StatusPending   RequestStatus = "pending"
	StatusSigned    RequestStatus = "signed"
	StatusCompleted RequestStatus = "completed"
	StatusDeclined  RequestStatus = "declined"
)

// SignatureField 签署域
// 描述某一页上的一个放置位置：坐标以页面宽高的百分比表示，原点在左上角，
// 宽高以点为单位（为0时取默认值）
type SignatureField struct {
	// ID 域唯一标识，签署值通过此ID回填
	ID string `json:"id" validate:"required"`

	// Type 域类型
	Type FieldType `json:"type" validate:"required,oneof=signature date text checkbox"`

	// Page 目标页码（从1开始）
	Page int `json:"page" validate:"required,min=1"`

	// X 横坐标，占页面宽度的百分比（0-100）
	X float64 `json:"x"`

	// Y 纵坐标，占页面高度的百分比（0-100），从页面顶部量起
	Y float64 `json:"y"`

	// Width 宽度（点），为0时取默认值180
	Width float64 `json:"width,omitempty"`

	// Height 高度（点），为0时取默认值（签名60，其他40）
	Height float64 `json:"height,omitempty"`

	// RecipientIndex 关联的签署人序号
	RecipientIndex int `json:"recipient_index"`
}

// EffectiveWidth 计算实际宽度
func (f *SignatureField) EffectiveWidth() float64 {
	if f.Width > 0 {
		return f.Width
	}
	return DefaultFieldWidth
}

// EffectiveHeight 计算实际高度
func (f *SignatureField) EffectiveHeight() float64 {
	if f.Height > 0 {
		return f.Height
	}
	if f.Type == FieldTypeSignature {
		return DefaultSignatureHeight
	}
	return DefaultFieldHeight
}

// SignedValue 签署人完成一个域后产生的值
// 按域类型只填充对应的载荷字段
type SignedValue struct {
	// FieldID 对应SignatureField.ID
	FieldID string `json:"id"`

	// SignatureData 签名图片的base64 data URL（PNG或JPEG）
	SignatureData string `json:"signature_data,omitempty"`

	// DateValue 日期展示文本
	DateValue string `json:"date_value,omitempty"`

	// TextValue 文本内容
	TextValue string `json:"text_value,omitempty"`

	// Checked 勾选框状态
	Checked bool `json:"checked,omitempty"`
}

// Recipient 签署人
type Recipient struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// SignatureRequest 签署请求，每个签署人一条
type SignatureRequest struct {
	// ID 请求唯一标识
	ID string `json:"id"`

	// Status 请求状态
	Status RequestStatus `json:"status"`

	// Recipient 签署人信息
	Recipient Recipient `json:"recipient"`

	// Fields 分配给该签署人的签署域（有序）
	Fields []SignatureField `json:"signature_fields"`

	// SignedValues 已完成的签署值（有序，按FieldID与Fields匹配）
	SignedValues []SignedValue `json:"signed_fields"`

	// SignedAt 完成签署的时间
	SignedAt time.Time `json:"signed_at,omitempty"`
}

// IsSigned 请求是否已完成签署
// signed与completed都视为已签署，其他状态不产生可见内容
func (r *SignatureRequest) IsSigned() bool {
	return r.Status == StatusSigned || r.Status == StatusCompleted
}

// SignedValueIndex 构建FieldID到签署值的索引
// 每个请求构建一次，避免遍历域时重复线性扫描；未命中即表示该域未填写
func (r *SignatureRequest) SignedValueIndex() map[string]*SignedValue {
	index := make(map[string]*SignedValue, len(r.SignedValues))
	for i := range r.SignedValues {
		index[r.SignedValues[i].FieldID] = &r.SignedValues[i]
	}
	return index
}
