package merge

import (
	"bytes"
	"log"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// AddPageNumbers 在每页底部居中印"Page n of total"
// 页码纯属装饰：任何失败都返回原始字节，绝不向调用方抛错
func AddPageNumbers(data []byte) ([]byte, bool) {
	conf := pdfmodel.NewDefaultConfiguration()

	wm, err := api.TextWatermark("Page %p of %P",
		"fontname:Helvetica, points:9, scale:1 abs, pos:bc, off:0 20, rot:0",
		true, false, types.POINTS)
	if err != nil {
		log.Printf("页码水印构建失败，保留原始字节: %v", err)
		return data, false
	}

	var buf bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(data), &buf, nil, wm, conf); err != nil {
		log.Printf("页码盖印失败，保留原始字节: %v", err)
		return data, false
	}

	return buf.Bytes(), true
}
