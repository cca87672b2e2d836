package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qiushui-dev/inkseal/internal/model"
)

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pdf-bytes"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Options{})
	data, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf-bytes"), data)
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("signed url expired"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Options{})
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var dlErr *model.DownloadError
	require.ErrorAs(t, err, &dlErr)
	assert.Equal(t, http.StatusForbidden, dlErr.StatusCode)
	assert.Contains(t, dlErr.Body, "signed url expired")
	assert.True(t, model.IsErrorType(err, model.ErrCodeDownload))
}

func TestFetch_NetworkError(t *testing.T) {
	f := NewHTTPFetcher(Options{})
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/unreachable")
	require.Error(t, err)
	assert.True(t, model.IsErrorType(err, model.ErrCodeDownload))
}

func TestFetch_MaxBytesExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 1024))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Options{MaxBytes: 100})
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, model.IsErrorType(err, model.ErrCodeDownload))
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewHTTPFetcher(Options{})
	_, err := f.Fetch(ctx, srv.URL)
	assert.Error(t, err)
}
