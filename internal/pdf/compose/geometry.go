package compose

import "github.com/qiushui-dev/inkseal/internal/model"

// Rect 绘制矩形，坐标系与页面存储坐标一致：原点左上角，y向下
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// CenterX 矩形水平中心
func (r Rect) CenterX() float64 {
	return r.X + r.W/2
}

// CenterY 矩形垂直中心
func (r Rect) CenterY() float64 {
	return r.Y + r.H/2
}

// FieldRect 计算签署域的绘制矩形
// 域坐标以页面宽高的百分比存储（原点左上角），矩形以该点为中心放置：
// 左上角 = (x% * W - w/2, y% * H - h/2)
// 换算到PDF自底向上坐标系时即 drawY = H - yPoints - h/2，与存储语义一致
func FieldRect(field *model.SignatureField, pageWidth, pageHeight float64) Rect {
	w := field.EffectiveWidth()
	h := field.EffectiveHeight()

	xPoints := field.X / 100 * pageWidth
	yPoints := field.Y / 100 * pageHeight

	return Rect{
		X: xPoints - w/2,
		Y: yPoints - h/2,
		W: w,
		H: h,
	}
}
