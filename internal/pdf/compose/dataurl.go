package compose

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // 注册JPEG解码器
	_ "image/png"  // 注册PNG解码器
	"mime"
	"strings"
)

// SignatureImage 已解码的签名图片
type SignatureImage struct {
	// Format gofpdf接受的图片类型标识：PNG或JPEG
	Format string

	// Data 原始图片字节
	Data []byte

	// Width/Height 像素尺寸（72dpi下等同于点）
	Width  int
	Height int
}

// ParseDataURL 解析 data:<mime>;base64,<payload> 形式的data URL
// 显式解析MIME类型而不是做子串匹配，未知类型直接报错而不是误当作JPEG
func ParseDataURL(dataURL string) (mediaType string, payload []byte, err error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", nil, fmt.Errorf("不是data URL")
	}

	rest := dataURL[len("data:"):]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return "", nil, fmt.Errorf("data URL缺少逗号分隔符")
	}

	meta := rest[:comma]
	encoded := rest[comma+1:]

	base64Encoded := false
	if strings.HasSuffix(meta, ";base64") {
		base64Encoded = true
		meta = strings.TrimSuffix(meta, ";base64")
	}

	if meta == "" {
		meta = "text/plain"
	}
	mediaType, _, err = mime.ParseMediaType(meta)
	if err != nil {
		return "", nil, fmt.Errorf("解析MIME类型失败: %w", err)
	}

	if !base64Encoded {
		return mediaType, []byte(encoded), nil
	}

	payload, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("base64解码失败: %w", err)
	}

	return mediaType, payload, nil
}

// DecodeSignatureImage 解码签名图片data URL
// 仅接受image/png与image/jpeg；载荷会完整解码一次以确认图片可用，
// 避免损坏的字节进入输出构建器
func DecodeSignatureImage(dataURL string) (*SignatureImage, error) {
	mediaType, payload, err := ParseDataURL(dataURL)
	if err != nil {
		return nil, err
	}

	var format string
	switch mediaType {
	case "image/png":
		format = "PNG"
	case "image/jpeg", "image/jpg":
		format = "JPEG"
	default:
		return nil, fmt.Errorf("不支持的签名图片类型: %s", mediaType)
	}

	img, decodedFormat, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("解码签名图片失败: %w", err)
	}

	// 声明的MIME与实际内容不一致时以实际内容为准
	switch decodedFormat {
	case "png":
		format = "PNG"
	case "jpeg":
		format = "JPEG"
	default:
		return nil, fmt.Errorf("不支持的签名图片内容: %s", decodedFormat)
	}

	bounds := img.Bounds()
	return &SignatureImage{
		Format: format,
		Data:   payload,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
