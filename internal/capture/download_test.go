package capture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestImageDownloader_Download_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(pngMagic)
	}))
	defer ts.Close()

	data, contentType, err := NewImageDownloader().Download(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, pngMagic, data)
	assert.Equal(t, "image/png", contentType)
}

func TestImageDownloader_Download_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, _, err := NewImageDownloader().Download(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestImageDownloader_Download_ContextCanceled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should have been canceled")
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewImageDownloader().Download(ctx, ts.URL)
	assert.Error(t, err)
}

func TestImageDownloader_Download_SizeLimit(t *testing.T) {
	largeData := make([]byte, 100)
	for i := range largeData {
		largeData[i] = byte(i % 256)
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(http.StatusOK)
		w.Write(largeData)
	}))
	defer ts.Close()

	_, _, err := NewImageDownloader().WithMaxSize(50).Download(context.Background(), ts.URL)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestImageDownloader_Download_ContentLengthExceedsLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Length", "999999999")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	_, _, err := NewImageDownloader().WithMaxSize(1000).Download(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestImageDownloader_Download_InvalidContentType(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>not an image</html>"))
	}))
	defer ts.Close()

	_, _, err := NewImageDownloader().Download(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid content type")
}

func TestImageDownloader_Download_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngMagic)
	}))
	defer ts.Close()

	_, _, err := NewImageDownloader().WithTimeout(20*time.Millisecond).Download(context.Background(), ts.URL)
	assert.Error(t, err)
}
