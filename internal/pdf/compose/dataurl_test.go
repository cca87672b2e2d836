package compose

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qiushui-dev/inkseal/internal/pdf/pdftest"
)

func TestParseDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello"))

	mediaType, data, err := ParseDataURL("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mediaType)
	assert.Equal(t, []byte("hello"), data)
}

func TestParseDataURL_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"不是data URL", "https://example.com/sig.png"},
		{"缺少逗号", "data:image/png;base64"},
		{"base64损坏", "data:image/png;base64,!!!not-base64!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseDataURL(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestDecodeSignatureImage_PNG(t *testing.T) {
	img, err := DecodeSignatureImage(pdftest.NewPNGDataURL(t, 120, 48))
	require.NoError(t, err)

	assert.Equal(t, "PNG", img.Format)
	assert.Equal(t, 120, img.Width)
	assert.Equal(t, 48, img.Height)
}

func TestDecodeSignatureImage_JPEG(t *testing.T) {
	img, err := DecodeSignatureImage(pdftest.NewJPEGDataURL(t, 90, 30))
	require.NoError(t, err)

	assert.Equal(t, "JPEG", img.Format)
	assert.Equal(t, 90, img.Width)
}

func TestDecodeSignatureImage_UnsupportedType(t *testing.T) {
	// 显式MIME解析：webp不能被误当作JPEG
	payload := base64.StdEncoding.EncodeToString([]byte("RIFFxxxxWEBP"))
	_, err := DecodeSignatureImage("data:image/webp;base64," + payload)
	assert.Error(t, err)
}

func TestDecodeSignatureImage_CorruptPayload(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("definitely not a png"))
	_, err := DecodeSignatureImage("data:image/png;base64," + payload)
	assert.Error(t, err)
}

func TestDecodeSignatureImage_MismatchedDeclaration(t *testing.T) {
	// 声明JPEG但实际是PNG：以实际内容为准
	png := pdftest.NewPNG(t, 10, 10)
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(png)

	img, err := DecodeSignatureImage(dataURL)
	require.NoError(t, err)
	assert.Equal(t, "PNG", img.Format)
}
