// Package fetch 提供带类型化错误的HTTP文件获取
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/qiushui-dev/inkseal/internal/model"
)

// 诊断用响应体片段上限
const maxErrorBodyBytes = 512

// Fetcher 文件获取器接口
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Options 获取器选项
type Options struct {
	// Timeout 单次请求超时
	Timeout time.Duration

	// MaxBytes 响应体最大字节数，0表示不限制
	MaxBytes int64
}

type httpFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPFetcher 创建HTTP获取器
func NewHTTPFetcher(opts Options) Fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &httpFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		maxBytes: opts.MaxBytes,
	}
}

// Fetch 下载url指向的全部字节
// 网络错误或非2xx状态返回DownloadError，携带状态码与响应体片段
func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, model.NewDownloadError(url, 0, "", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, model.NewDownloadError(url, 0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, model.NewDownloadError(url, resp.StatusCode, string(snippet), nil)
	}

	reader := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, model.NewDownloadError(url, resp.StatusCode, "", err)
	}

	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, model.NewDownloadError(url, resp.StatusCode, "",
			fmt.Errorf("响应体超过%d字节上限", f.maxBytes))
	}

	return data, nil
}
