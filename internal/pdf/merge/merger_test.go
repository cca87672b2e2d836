package merge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qiushui-dev/inkseal/internal/fetch"
	"github.com/qiushui-dev/inkseal/internal/model"
	"github.com/qiushui-dev/inkseal/internal/pdf/inspect"
	"github.com/qiushui-dev/inkseal/internal/pdf/pdftest"
)

// fileServer 按路径提供若干测试文件
func fileServer(t *testing.T, files map[string][]byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := files[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(data)
	}))
}

func newMerger() *Merger {
	return NewMerger(fetch.NewHTTPFetcher(fetch.Options{Timeout: 10 * time.Second}))
}

func TestMerge_NoAttachments(t *testing.T) {
	srv := fileServer(t, map[string][]byte{"/main.pdf": pdftest.NewPDF(t, 3)})
	defer srv.Close()

	m := newMerger()
	out, report, err := m.MergeWithAttachments(context.Background(), srv.URL+"/main.pdf", nil)
	require.NoError(t, err)

	// 无附件：不加分隔页，输出与主文档页数一致
	pages, err := inspect.PageCount("output", out)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
	assert.False(t, report.SeparatorAdded)
	assert.Equal(t, 3, report.TotalPages)
}

func TestMerge_PageCountInvariant(t *testing.T) {
	// 主文档3页 + 分隔页1 + PDF附件(头页1+2页) + 图片附件1 = 8页
	uploadedAt := time.Date(2026, 7, 15, 9, 0, 0, 0, time.UTC)
	srv := fileServer(t, map[string][]byte{
		"/main.pdf": pdftest.NewPDF(t, 3),
		"/att.pdf":  pdftest.NewPDF(t, 2),
		"/att.png":  pdftest.NewPNG(t, 200, 150),
	})
	defer srv.Close()

	attachments := []model.Attachment{
		{URL: srv.URL + "/att.pdf", Filename: "contract-annex.pdf", FileType: "application/pdf", UploadedBy: "ops", UploadedAt: &uploadedAt},
		{URL: srv.URL + "/att.png", Filename: "photo.png", FileType: "image/png"},
	}

	m := newMerger()
	out, report, err := m.MergeWithAttachments(context.Background(), srv.URL+"/main.pdf", attachments)
	require.NoError(t, err)

	pages, err := inspect.PageCount("output", out)
	require.NoError(t, err)
	assert.Equal(t, 8, pages)

	assert.Equal(t, 3, report.MainPages)
	assert.Equal(t, 8, report.TotalPages)
	assert.True(t, report.SeparatorAdded)
	require.Len(t, report.Appended, 2)
	assert.Equal(t, 3, report.Appended[0].PagesAdded)
	assert.Equal(t, 1, report.Appended[1].PagesAdded)
	assert.Empty(t, report.Skipped)
}

func TestMerge_OrderPreservation(t *testing.T) {
	srv := fileServer(t, map[string][]byte{
		"/main.pdf": pdftest.NewPDF(t, 1),
		"/a.pdf":    pdftest.NewPDF(t, 1),
		"/b.png":    pdftest.NewPNG(t, 50, 50),
	})
	defer srv.Close()

	attachments := []model.Attachment{
		{URL: srv.URL + "/a.pdf", Filename: "a.pdf", FileType: "application/pdf"},
		{URL: srv.URL + "/b.png", Filename: "b.png", FileType: "image/png"},
		{URL: "unused", Filename: "c.docx", FileType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	}

	m := newMerger()
	_, report, err := m.MergeWithAttachments(context.Background(), srv.URL+"/main.pdf", attachments)
	require.NoError(t, err)

	// 并入顺序与输入顺序严格一致
	require.Len(t, report.Appended, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{
		report.Appended[0].Index,
		report.Appended[1].Index,
		report.Appended[2].Index,
	})
	assert.Equal(t, "a.pdf", report.Appended[0].Filename)
	assert.Equal(t, "b.png", report.Appended[1].Filename)
	assert.Equal(t, "c.docx", report.Appended[2].Filename)

	// pdf: 头页+1页；图片: 1页；引用页: 1页
	assert.Equal(t, 2, report.Appended[0].PagesAdded)
	assert.Equal(t, 1, report.Appended[1].PagesAdded)
	assert.Equal(t, 1, report.Appended[2].PagesAdded)
}

func TestMerge_GracefulAttachmentSkip(t *testing.T) {
	srv := fileServer(t, map[string][]byte{
		"/main.pdf":    pdftest.NewPDF(t, 1),
		"/good.pdf":    pdftest.NewPDF(t, 1),
		"/corrupt.pdf": []byte("not a pdf at all"),
		"/good.png":    pdftest.NewPNG(t, 40, 40),
	})
	defer srv.Close()

	attachments := []model.Attachment{
		{URL: srv.URL + "/good.pdf", Filename: "good.pdf", FileType: "application/pdf"},
		{URL: srv.URL + "/corrupt.pdf", Filename: "corrupt.pdf", FileType: "application/pdf"},
		{URL: srv.URL + "/good.png", Filename: "good.png", FileType: "image/png"},
	}

	m := newMerger()
	out, report, err := m.MergeWithAttachments(context.Background(), srv.URL+"/main.pdf", attachments)
	require.NoError(t, err, "单个损坏附件不能中断整体合并")

	// 1主 + 1分隔 + (1头+1页) + 1图片 = 5页，损坏附件无贡献
	pages, err := inspect.PageCount("output", out)
	require.NoError(t, err)
	assert.Equal(t, 5, pages)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "corrupt.pdf", report.Skipped[0].Filename)
	assert.Equal(t, SkipInvalidPDF, report.Skipped[0].Reason)
	require.Len(t, report.Appended, 2)
}

func TestMerge_FetchFailureSkips(t *testing.T) {
	srv := fileServer(t, map[string][]byte{"/main.pdf": pdftest.NewPDF(t, 1)})
	defer srv.Close()

	attachments := []model.Attachment{
		{URL: srv.URL + "/missing.pdf", Filename: "missing.pdf", FileType: "application/pdf"},
	}

	m := newMerger()
	_, report, err := m.MergeWithAttachments(context.Background(), srv.URL+"/main.pdf", attachments)
	require.NoError(t, err)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, SkipFetchFailed, report.Skipped[0].Reason)
}

func TestMerge_UnsupportedImageSubtypeSkips(t *testing.T) {
	srv := fileServer(t, map[string][]byte{"/main.pdf": pdftest.NewPDF(t, 1)})
	defer srv.Close()

	attachments := []model.Attachment{
		{URL: srv.URL + "/x.webp", Filename: "x.webp", FileType: "image/webp"},
	}

	m := newMerger()
	out, report, err := m.MergeWithAttachments(context.Background(), srv.URL+"/main.pdf", attachments)
	require.NoError(t, err)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, SkipUnsupportedImage, report.Skipped[0].Reason)

	// 跳过的图片没有页贡献：1主 + 1分隔
	pages, err := inspect.PageCount("output", out)
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
}

func TestMerge_MainPDFFatal(t *testing.T) {
	srv := fileServer(t, map[string][]byte{"/bad.pdf": []byte("garbage")})
	defer srv.Close()

	m := newMerger()

	_, _, err := m.MergeWithAttachments(context.Background(), srv.URL+"/missing.pdf", nil)
	require.Error(t, err)
	assert.True(t, model.IsErrorType(err, model.ErrCodeDownload))

	_, _, err = m.MergeWithAttachments(context.Background(), srv.URL+"/bad.pdf", nil)
	require.Error(t, err)
	assert.True(t, model.IsErrorType(err, model.ErrCodeInvalidPDF))
}

func TestMerge_ReferencePageForUnsupportedType(t *testing.T) {
	srv := fileServer(t, map[string][]byte{"/main.pdf": pdftest.NewPDF(t, 1)})
	defer srv.Close()

	attachments := []model.Attachment{
		{URL: "unused", Filename: "report.xlsx", FileType: "application/vnd.ms-excel", UploadedBy: "finance"},
	}

	m := newMerger()
	out, report, err := m.MergeWithAttachments(context.Background(), srv.URL+"/main.pdf", attachments)
	require.NoError(t, err)

	// 1主 + 1分隔 + 1引用页
	pages, err := inspect.PageCount("output", out)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
	require.Len(t, report.Appended, 1)
	assert.Equal(t, 1, report.Appended[0].PagesAdded)
}
