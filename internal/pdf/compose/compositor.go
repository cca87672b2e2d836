// Package compose 实现签署域合成器
// 将签名图片、日期/文本值与审计信息叠加到既有PDF的页面上，
// 输出全新的字节流，永不修改源文档
package compose

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"

	"github.com/qiushui-dev/inkseal/internal/fetch"
	"github.com/qiushui-dev/inkseal/internal/model"
	"github.com/qiushui-dev/inkseal/internal/pdf/inspect"
)

// 时间戳展示格式
const timestampLayout = "2006-01-02 15:04:05"

// overlay 一条已规划好的绘制任务
type overlay struct {
	request *model.SignatureRequest
	field   *model.SignatureField
	value   *model.SignedValue
	rect    Rect
}

// Compositor 签署域合成器
type Compositor struct {
	fetcher fetch.Fetcher
}

// NewCompositor 创建合成器
func NewCompositor(fetcher fetch.Fetcher) *Compositor {
	return &Compositor{fetcher: fetcher}
}

// GenerateSignedPDF 下载文档底稿并叠加所有已签署请求的域内容与审计信息
//
// 致命错误：文档无文件引用（NotFoundError）、下载失败（DownloadError）、
// PDF无法解析（InvalidPDFError）。单个域的渲染问题只降级或跳过，记录在Report中
func (c *Compositor) GenerateSignedPDF(ctx context.Context, doc *model.Document, requests []*model.SignatureRequest) ([]byte, *Report, error) {
	if doc == nil || doc.FileURL == "" {
		id := ""
		if doc != nil {
			id = doc.ID
		}
		return nil, nil, model.NewNotFoundError(id, "文档没有可下载的文件内容")
	}

	data, err := c.fetcher.Fetch(ctx, doc.FileURL)
	if err != nil {
		return nil, nil, err
	}

	source := doc.Name
	if source == "" {
		source = doc.ID
	}
	info, err := inspect.Inspect(source, data)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{PageCount: info.PageCount}
	overlays := planOverlays(requests, info, report)

	signed := make([]*model.SignatureRequest, 0, len(requests))
	for _, r := range requests {
		if r.IsSigned() {
			signed = append(signed, r)
		}
	}
	report.AuditEntries = len(signed)

	out, err := c.build(source, data, info, overlays, signed, report)
	if err != nil {
		return nil, nil, err
	}

	return out, report, nil
}

// planOverlays 在绘制前把所有域解析成明确的绘制任务
// 跳过的域记入report，永不中断整体合成
func planOverlays(requests []*model.SignatureRequest, info *inspect.Info, report *Report) map[int][]overlay {
	plan := make(map[int][]overlay)

	for _, request := range requests {
		if !request.IsSigned() {
			continue
		}

		index := request.SignedValueIndex()
		for i := range request.Fields {
			field := &request.Fields[i]

			value, ok := index[field.ID]
			if !ok {
				report.addSkip(request.ID, field, SkipNoSignedValue)
				continue
			}

			pageIdx := field.Page - 1
			if pageIdx < 0 || pageIdx >= info.PageCount {
				report.addSkip(request.ID, field, SkipPageOutOfRange)
				continue
			}

			switch field.Type {
			case model.FieldTypeSignature:
				if value.SignatureData == "" {
					report.addSkip(request.ID, field, SkipEmptyValue)
					continue
				}
			case model.FieldTypeDate:
				if value.DateValue == "" {
					report.addSkip(request.ID, field, SkipEmptyValue)
					continue
				}
			case model.FieldTypeText:
				if value.TextValue == "" {
					report.addSkip(request.ID, field, SkipEmptyValue)
					continue
				}
			case model.FieldTypeCheckbox:
				if !checkboxChecked(value) {
					report.addSkip(request.ID, field, SkipCheckboxUnchecked)
					continue
				}
			default:
				report.addSkip(request.ID, field, SkipEmptyValue)
				continue
			}

			dim := info.Dims[pageIdx]
			plan[pageIdx] = append(plan[pageIdx], overlay{
				request: request,
				field:   field,
				value:   value,
				rect:    FieldRect(field, dim.Width, dim.Height),
			})
		}
	}

	return plan
}

// checkboxChecked 判定勾选框签署值是否为勾选状态
func checkboxChecked(value *model.SignedValue) bool {
	if value.Checked {
		return true
	}
	return value.TextValue == "true" || value.TextValue == "checked"
}

// build 逐页导入源文档并绘制叠加内容，审计信息追加在最后一页
func (c *Compositor) build(source string, data []byte, info *inspect.Info, overlays map[int][]overlay, signed []*model.SignatureRequest, report *Report) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	importer := gofpdi.NewImporter()
	var rs io.ReadSeeker = bytes.NewReader(data)

	b := &builder{pdf: pdf, report: report}

	for pageIdx := 0; pageIdx < info.PageCount; pageIdx++ {
		dim := info.Dims[pageIdx]

		tpl, err := importSourcePage(pdf, importer, &rs, pageIdx+1)
		if err != nil {
			return nil, model.NewInvalidPDFError(source, "导入源页面失败", err)
		}

		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: dim.Width, Ht: dim.Height})
		importer.UseImportedTemplate(pdf, tpl, 0, 0, dim.Width, dim.Height)

		for _, ov := range overlays[pageIdx] {
			b.draw(ov)
		}

		if pageIdx == info.PageCount-1 {
			drawAuditTrail(pdf, dim.Height, signed)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, model.NewSystemError("compositor", "render", "绘制输出文档失败", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, model.NewSystemError("compositor", "serialize", "序列化输出文档失败", err)
	}

	return buf.Bytes(), nil
}

// importSourcePage 导入源文档的一页
// gofpdi在遇到异常结构时会panic，这里统一转成错误
func importSourcePage(pdf *gofpdf.Fpdf, importer *gofpdi.Importer, rs *io.ReadSeeker, pageNo int) (tpl int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("import page %d: %v", pageNo, r)
		}
	}()

	tpl = importer.ImportPageFromStream(pdf, rs, pageNo, "/MediaBox")
	return tpl, nil
}

// builder 输出文档构建器，贯穿整个合成过程
type builder struct {
	pdf    *gofpdf.Fpdf
	report *Report
	seq    int
}

// draw 按域类型渲染一条绘制任务
func (b *builder) draw(ov overlay) {
	switch ov.field.Type {
	case model.FieldTypeSignature:
		b.drawSignature(ov)
	case model.FieldTypeDate:
		b.drawCenteredValue(ov, ov.value.DateValue)
	case model.FieldTypeText:
		b.drawCenteredValue(ov, ov.value.TextValue)
	case model.FieldTypeCheckbox:
		b.drawCheckbox(ov)
	}
}

// drawSignature 渲染签名图片，解码失败时降级为文字占位
// 签名域专属：矩形下方追加签署人姓名与签署时间两行
func (b *builder) drawSignature(ov overlay) {
	img, err := DecodeSignatureImage(ov.value.SignatureData)
	if err != nil {
		log.Printf("签名图片解码失败，降级为文字占位: request=%s field=%s err=%v",
			ov.request.ID, ov.field.ID, err)
		b.pdf.SetFont("Helvetica", "", 12)
		b.pdf.SetTextColor(0, 0, 0)
		b.pdf.Text(ov.rect.X, ov.rect.Y+12, "Signed")
		b.report.addFallback(ov.request.ID, ov.field)
	} else {
		b.seq++
		name := fmt.Sprintf("signature-%d", b.seq)
		opts := gofpdf.ImageOptions{ImageType: img.Format}
		b.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
		b.pdf.ImageOptions(name, ov.rect.X, ov.rect.Y, ov.rect.W, ov.rect.H, false, opts, 0, "")
	}

	b.pdf.SetFont("Helvetica", "", 8)
	b.pdf.SetTextColor(102, 102, 102)
	b.centerText(ov.request.Recipient.Name, ov.rect.CenterX(), ov.rect.Y+ov.rect.H+12)
	b.centerText("Signed: "+formatTimestamp(ov.request.SignedAt), ov.rect.CenterX(), ov.rect.Y+ov.rect.H+24)
	b.pdf.SetTextColor(0, 0, 0)

	b.report.RenderedFields++
}

// drawCenteredValue 在矩形内水平居中绘制文本
// 基线取垂直中点再下移固定偏移，补偿字体基线
func (b *builder) drawCenteredValue(ov overlay, text string) {
	b.pdf.SetFont("Helvetica", "", 11)
	b.pdf.SetTextColor(0, 0, 0)
	b.centerText(text, ov.rect.CenterX(), ov.rect.CenterY()+4)
	b.report.RenderedFields++
}

// drawCheckbox 在矩形中心绘制勾选标记
func (b *builder) drawCheckbox(ov overlay) {
	b.pdf.SetFont("Helvetica", "B", 12)
	b.pdf.SetTextColor(0, 0, 0)
	b.centerText("X", ov.rect.CenterX(), ov.rect.CenterY()+4)
	b.report.RenderedFields++
}

// centerText 以centerX为中心绘制一行文本
func (b *builder) centerText(text string, centerX, baselineY float64) {
	w := b.pdf.GetStringWidth(text)
	b.pdf.Text(centerX-w/2, baselineY, text)
}

// formatTimestamp 格式化签署时间，零值时取当前时间
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(timestampLayout)
}
