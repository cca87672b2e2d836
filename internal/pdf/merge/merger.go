// Package merge 实现附件合并器
// 把主PDF与异构附件（PDF、图片、其他类型）拼接成一个输出文档：
// 主内容、生成的分隔页、每个附件一段，顺序与输入严格一致
package merge

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // 注册JPEG解码器
	_ "image/png"  // 注册PNG解码器
	"io"
	"log"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/qiushui-dev/inkseal/internal/fetch"
	"github.com/qiushui-dev/inkseal/internal/model"
	"github.com/qiushui-dev/inkseal/internal/pdf/inspect"
)

// Merger 附件合并器
type Merger struct {
	fetcher fetch.Fetcher
}

// NewMerger 创建合并器
func NewMerger(fetcher fetch.Fetcher) *Merger {
	return &Merger{fetcher: fetcher}
}

// MergeWithAttachments 下载主PDF并与附件合并
// 主PDF获取或解析失败是致命错误；单个附件失败只跳过该附件
func (m *Merger) MergeWithAttachments(ctx context.Context, mainURL string, attachments []model.Attachment) ([]byte, *Report, error) {
	data, err := m.fetcher.Fetch(ctx, mainURL)
	if err != nil {
		return nil, nil, err
	}
	return m.MergeData(ctx, data, mainURL, attachments)
}

// MergeData 与MergeWithAttachments相同，但主PDF字节已在手
// 流水线内部使用，避免合成结果先上传再回读
func (m *Merger) MergeData(ctx context.Context, mainData []byte, source string, attachments []model.Attachment) ([]byte, *Report, error) {
	mainInfo, err := inspect.Inspect(source, mainData)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{MainPages: mainInfo.PageCount}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	mainImported, err := importAll(pdf, mainData, mainInfo)
	if err != nil {
		return nil, nil, model.NewInvalidPDFError(source, "导入主文档页面失败", err)
	}
	mainImported.drawPages(pdf)

	if len(attachments) > 0 {
		addSeparatorPage(pdf, len(attachments))
		report.SeparatorAdded = true
	}

	seq := 0
	for idx := range attachments {
		att := &attachments[idx]

		sec, skip := m.prepareAttachment(ctx, pdf, idx, att)
		if skip != nil {
			log.Printf("跳过附件 %d (%s): %s %s", idx, att.Filename, skip.Reason, skip.Detail)
			report.Skipped = append(report.Skipped, *skip)
			continue
		}

		pages := sec.appendTo(pdf, idx, &seq)
		report.Appended = append(report.Appended, AppendedSection{
			Index:      idx,
			Filename:   att.Filename,
			PagesAdded: pages,
		})
	}

	setMetadata(pdf)

	if err := pdf.Error(); err != nil {
		return nil, nil, model.NewSystemError("merger", "render", "构建合并文档失败", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, nil, model.NewSystemError("merger", "serialize", "序列化合并文档失败", err)
	}

	report.TotalPages = pdf.PageCount()
	return buf.Bytes(), report, nil
}

// sectionKind 附件段类型
type sectionKind int

const (
	sectionPDF sectionKind = iota
	sectionImage
	sectionReference
)

// section 一个已准备好、可安全并入输出的附件段
// 所有下载、解码与校验在prepare阶段完成，append阶段不再失败，
// 保证失败的附件不会留下残缺的半段内容
type section struct {
	kind sectionKind
	att  *model.Attachment

	// kind == sectionPDF
	imported *imported

	// kind == sectionImage
	imgFormat string
	imgData   []byte
	imgWidth  float64
	imgHeight float64
}

// prepareAttachment 获取并校验一个附件，返回可并入的段或跳过原因
func (m *Merger) prepareAttachment(ctx context.Context, pdf *gofpdf.Fpdf, index int, att *model.Attachment) (*section, *SkippedAttachment) {
	skip := func(reason SkipReason, detail string) *SkippedAttachment {
		return &SkippedAttachment{
			Index:    index,
			Filename: att.Filename,
			FileType: att.FileType,
			Reason:   reason,
			Detail:   detail,
		}
	}

	switch {
	case att.FileType == "application/pdf":
		data, err := m.fetcher.Fetch(ctx, att.URL)
		if err != nil {
			return nil, skip(SkipFetchFailed, err.Error())
		}
		info, err := inspect.Inspect(att.Filename, data)
		if err != nil {
			return nil, skip(SkipInvalidPDF, err.Error())
		}
		imported, err := importAll(pdf, data, info)
		if err != nil {
			return nil, skip(SkipInvalidPDF, err.Error())
		}
		return &section{kind: sectionPDF, att: att, imported: imported}, nil

	case strings.HasPrefix(att.FileType, "image/"):
		if !supportedImageType(att.FileType) {
			return nil, skip(SkipUnsupportedImage, att.FileType)
		}
		data, err := m.fetcher.Fetch(ctx, att.URL)
		if err != nil {
			return nil, skip(SkipFetchFailed, err.Error())
		}
		img, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, skip(SkipDecodeFailed, err.Error())
		}
		var gofpdfFormat string
		switch format {
		case "png":
			gofpdfFormat = "PNG"
		case "jpeg":
			gofpdfFormat = "JPEG"
		default:
			return nil, skip(SkipUnsupportedImage, format)
		}
		bounds := img.Bounds()
		return &section{
			kind:      sectionImage,
			att:       att,
			imgFormat: gofpdfFormat,
			imgData:   data,
			imgWidth:  float64(bounds.Dx()),
			imgHeight: float64(bounds.Dy()),
		}, nil

	default:
		return &section{kind: sectionReference, att: att}, nil
	}
}

// supportedImageType 仅PNG与JPEG可嵌入
func supportedImageType(fileType string) bool {
	switch fileType {
	case "image/png", "image/jpeg", "image/jpg":
		return true
	}
	return false
}

// appendTo 把段内容并入输出，返回新增页数
func (s *section) appendTo(pdf *gofpdf.Fpdf, index int, seq *int) int {
	switch s.kind {
	case sectionPDF:
		addHeaderPage(pdf, index, s.att)
		s.imported.drawPages(pdf)
		return 1 + len(s.imported.templates)

	case sectionImage:
		*seq++
		name := fmt.Sprintf("attachment-image-%d", *seq)
		addImagePage(pdf, name, s.att, s.imgFormat, s.imgData, s.imgWidth, s.imgHeight)
		return 1

	default:
		addReferencePage(pdf, s.att)
		return 1
	}
}

// imported 一份源PDF的全部页面模板
type imported struct {
	importer  *gofpdi.Importer
	templates []int
	dims      []types.Dim
}

// importAll 把源PDF的所有页面注册为模板
// gofpdi对异常结构会panic，这里统一转成错误；此时尚未新增任何页面
func importAll(pdf *gofpdf.Fpdf, data []byte, info *inspect.Info) (result *imported, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("import pages: %v", r)
		}
	}()

	importer := gofpdi.NewImporter()
	var rs io.ReadSeeker = bytes.NewReader(data)

	templates := make([]int, 0, info.PageCount)
	for pageNo := 1; pageNo <= info.PageCount; pageNo++ {
		templates = append(templates, importer.ImportPageFromStream(pdf, &rs, pageNo, "/MediaBox"))
	}

	return &imported{
		importer:  importer,
		templates: templates,
		dims:      info.Dims,
	}, nil
}

// drawPages 按原始顺序把模板页画入输出
func (im *imported) drawPages(pdf *gofpdf.Fpdf) {
	for i, tpl := range im.templates {
		dim := im.dims[i]
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: dim.Width, Ht: dim.Height})
		im.importer.UseImportedTemplate(pdf, tpl, 0, 0, dim.Width, dim.Height)
	}
}

// setMetadata 设置输出文档元数据
func setMetadata(pdf *gofpdf.Fpdf) {
	pdf.SetTitle("Signed Document with Attachments", true)
	pdf.SetSubject("Merged document including signed content and attachments", true)
	pdf.SetCreator("inkseal", true)
	pdf.SetProducer("inkseal", true)
	pdf.SetCreationDate(time.Now())
}
