package capture

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// DefaultDownloadTimeout is the default timeout for image downloads
const DefaultDownloadTimeout = 30 * time.Second

// ImageDownloader fetches images over HTTP with a size limit and a
// content-type check.
type ImageDownloader struct {
	client  *resty.Client
	timeout time.Duration
	maxSize int64
}

// NewImageDownloader creates a new ImageDownloader with default settings.
func NewImageDownloader() *ImageDownloader {
	return &ImageDownloader{
		client:  resty.New().SetTimeout(DefaultDownloadTimeout),
		timeout: DefaultDownloadTimeout,
		maxSize: DefaultMaxImageSize,
	}
}

// WithTimeout sets a custom timeout for downloads.
func (d *ImageDownloader) WithTimeout(timeout time.Duration) *ImageDownloader {
	d.timeout = timeout
	d.client.SetTimeout(timeout)
	return d
}

// WithMaxSize sets a custom maximum file size.
func (d *ImageDownloader) WithMaxSize(maxSize int64) *ImageDownloader {
	d.maxSize = maxSize
	return d
}

// Download fetches imageURL and returns its body and Content-Type.
// It respects context cancellation and enforces the size limit even when
// Content-Length is missing or wrong.
func (d *ImageDownloader) Download(ctx context.Context, imageURL string) ([]byte, string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	res, err := d.client.R().
		SetContext(reqCtx).
		SetDoNotParseResponse(true).
		Get(imageURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	body := res.RawBody()
	defer body.Close()

	if res.StatusCode() != http.StatusOK {
		return nil, "", fmt.Errorf("download failed: status %d", res.StatusCode())
	}

	contentType := res.Header().Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("invalid content type: expected image/*, got %s", contentType)
	}

	if res.RawResponse.ContentLength > d.maxSize {
		return nil, "", fmt.Errorf("%w: %d bytes exceeds limit of %d bytes", ErrTooLarge, res.RawResponse.ContentLength, d.maxSize)
	}

	data, err := readLimited(body, d.maxSize)
	if err != nil {
		return nil, "", err
	}

	log.Debug().Str("url", imageURL).Int("bytes", len(data)).Msg("downloaded image")
	return data, contentType, nil
}
