// Package pdftest 提供测试用的PDF与图片夹具生成
package pdftest

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// NewPDF 生成一个n页的A4测试PDF，每页印有页标题
func NewPDF(t *testing.T, pages int) []byte {
	t.Helper()

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 14)
		pdf.Text(72, 72, fmt.Sprintf("Fixture page %d", i))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("生成测试PDF失败: %v", err)
	}
	return buf.Bytes()
}

// NewPNG 生成一张纯色PNG
func NewPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 60, B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("生成测试PNG失败: %v", err)
	}
	return buf.Bytes()
}

// NewJPEG 生成一张纯色JPEG
func NewJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 60, B: 30, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("生成测试JPEG失败: %v", err)
	}
	return buf.Bytes()
}

// NewPNGDataURL 生成PNG签名图片的base64 data URL
func NewPNGDataURL(t *testing.T, width, height int) string {
	t.Helper()
	data := NewPNG(t, width, height)
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

// NewJPEGDataURL 生成JPEG签名图片的base64 data URL
func NewJPEGDataURL(t *testing.T, width, height int) string {
	t.Helper()
	data := NewJPEG(t, width, height)
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
}
