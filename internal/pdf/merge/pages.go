package merge

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/qiushui-dev/inkseal/internal/model"
)

// 生成页统一使用A4尺寸（点）
const (
	pageWidth  = 595.0
	pageHeight = 842.0

	imageMarginX = 50.0
	imageMarginY = 75.0
	captionY     = pageHeight - 30
)

// addSeparatorPage 生成附件分隔页：标题、说明、附件总数与一条横线
func addSeparatorPage(pdf *gofpdf.Fpdf, count int) {
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight})

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(0, 0, 0)
	centerText(pdf, "ATTACHMENTS", pageWidth/2, 300)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(80, 80, 80)
	centerText(pdf, "The following files were attached to this document.", pageWidth/2, 340)
	centerText(pdf, fmt.Sprintf("Total attachments: %d", count), pageWidth/2, 365)

	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(1)
	pdf.Line(imageMarginX, 390, pageWidth-imageMarginX, 390)
	pdf.SetTextColor(0, 0, 0)
}

// addHeaderPage 生成PDF附件的头页：序号、文件名、上传信息
func addHeaderPage(pdf *gofpdf.Fpdf, index int, att *model.Attachment) {
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight})

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(imageMarginX, 120, fmt.Sprintf("Attachment %d: %s", index+1, att.Filename))

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(102, 102, 102)
	y := 150.0
	if att.UploadedBy != "" {
		pdf.Text(imageMarginX, y, "Uploaded by: "+att.UploadedBy)
		y += 16
	}
	if att.UploadedAt != nil {
		pdf.Text(imageMarginX, y, "Uploaded at: "+att.UploadedAt.Format("2006-01-02 15:04:05"))
	}
	pdf.SetTextColor(0, 0, 0)
}

// imageScale 计算图片在页面可用区域内的缩放系数
// 只按比例缩小，永不放大
func imageScale(imgWidth, imgHeight float64) float64 {
	maxW := pageWidth - 2*imageMarginX
	maxH := pageHeight - 2*imageMarginY

	scale := 1.0
	if imgWidth > maxW {
		scale = maxW / imgWidth
	}
	if imgHeight*scale > maxH {
		scale = maxH / imgHeight
	}
	return scale
}

// addImagePage 生成图片附件页：图片按比例缩放后居中，底部附文件名说明
// 像素尺寸按72dpi直接当作点使用
func addImagePage(pdf *gofpdf.Fpdf, name string, att *model.Attachment, format string, data []byte, imgWidth, imgHeight float64) {
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight})

	scale := imageScale(imgWidth, imgHeight)
	drawW := imgWidth * scale
	drawH := imgHeight * scale
	x := (pageWidth - drawW) / 2
	y := (pageHeight - drawH) / 2

	opts := gofpdf.ImageOptions{ImageType: format}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	pdf.ImageOptions(name, x, y, drawW, drawH, false, opts, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(102, 102, 102)
	centerText(pdf, "Attachment: "+att.Filename, pageWidth/2, captionY)
	pdf.SetTextColor(0, 0, 0)
}

// addReferencePage 为无法嵌入的附件类型生成引用页
func addReferencePage(pdf *gofpdf.Fpdf, att *model.Attachment) {
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight})

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(imageMarginX, 150, att.Filename)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(imageMarginX, 190, "This file type cannot be embedded in the PDF.")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Text(imageMarginX, 215, "File type: "+att.FileType)
	pdf.Text(imageMarginX, 240, "Please download this attachment separately.")

	if att.UploadedBy != "" {
		pdf.SetTextColor(102, 102, 102)
		pdf.Text(imageMarginX, 270, "Uploaded by: "+att.UploadedBy)
	}
	pdf.SetTextColor(0, 0, 0)
}

// centerText 以centerX为中心绘制一行文本
func centerText(pdf *gofpdf.Fpdf, text string, centerX, baselineY float64) {
	w := pdf.GetStringWidth(text)
	pdf.Text(centerX-w/2, baselineY, text)
}
