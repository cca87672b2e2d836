package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qiushui-dev/inkseal/internal/pdf/inspect"
	"github.com/qiushui-dev/inkseal/internal/pdf/pdftest"
)

func TestAddPageNumbers_Applied(t *testing.T) {
	src := pdftest.NewPDF(t, 3)

	out, applied := AddPageNumbers(src)
	assert.True(t, applied)

	// 页码只是盖印，不改变页数，输出仍是合法PDF
	pages, err := inspect.PageCount("numbered", out)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
}

func TestAddPageNumbers_FailureReturnsOriginal(t *testing.T) {
	src := []byte("definitely not a pdf")

	out, applied := AddPageNumbers(src)
	assert.False(t, applied)
	assert.Equal(t, src, out, "失败时必须返回原始字节")
}
