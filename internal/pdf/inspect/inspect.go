// Package inspect 封装对不可信PDF字节的结构校验与页面信息读取
// 所有外部获取的PDF在进入合成器之前都先经过这里
package inspect

import (
	"bytes"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/qiushui-dev/inkseal/internal/model"
)

// Info PDF基本信息
type Info struct {
	// PageCount 页数
	PageCount int

	// Dims 每页的宽高（点），下标从0开始
	Dims []types.Dim
}

// Inspect 解析并校验PDF，返回页数与各页尺寸
// source仅用于错误信息定位，任何失败都返回InvalidPDFError
func Inspect(source string, data []byte) (*Info, error) {
	conf := pdfmodel.NewDefaultConfiguration()

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, model.NewInvalidPDFError(source, "解析PDF失败", err)
	}

	if err := api.ValidateContext(ctx); err != nil {
		return nil, model.NewInvalidPDFError(source, "PDF结构校验失败", err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, model.NewInvalidPDFError(source, "读取页面尺寸失败", err)
	}

	if len(dims) == 0 {
		return nil, model.NewInvalidPDFError(source, "PDF不含任何页面", nil)
	}

	return &Info{
		PageCount: len(dims),
		Dims:      dims,
	}, nil
}

// PageCount 返回PDF页数，校验失败时返回错误
func PageCount(source string, data []byte) (int, error) {
	info, err := Inspect(source, data)
	if err != nil {
		return 0, err
	}
	return info.PageCount, nil
}
