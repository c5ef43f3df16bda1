// Package capture turns user input into an encoded image: a file path, an
// HTTP(S) URL, base64 data URI text, or a frame from a local camera.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/raine/pricesnap/internal/prediction"
)

// DefaultMaxImageSize is the default maximum image size (10MB)
const DefaultMaxImageSize = 10 * 1024 * 1024

var ErrTooLarge = errors.New("image too large")

// Source produces one captured image.
type Source interface {
	Capture(ctx context.Context) (prediction.Image, error)
}

// FileSource reads an image from disk.
type FileSource struct {
	Path    string
	MaxSize int64
}

func (s FileSource) Capture(ctx context.Context) (prediction.Image, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return prediction.Image{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	data, err := readLimited(f, maxOrDefault(s.MaxSize))
	if err != nil {
		return prediction.Image{}, err
	}
	if len(data) == 0 {
		return prediction.Image{}, fmt.Errorf("image file %s is empty", s.Path)
	}
	return prediction.NewImage(data, ""), nil
}

// DataURISource decodes base64 text, with or without a data URI prefix.
type DataURISource struct {
	Text    string
	MaxSize int64
}

func (s DataURISource) Capture(ctx context.Context) (prediction.Image, error) {
	img, err := prediction.DecodeDataURI(s.Text)
	if err != nil {
		return prediction.Image{}, err
	}
	if limit := maxOrDefault(s.MaxSize); int64(len(img.Data)) > limit {
		return prediction.Image{}, fmt.Errorf("%w: exceeds limit of %d bytes", ErrTooLarge, limit)
	}
	return img, nil
}

// URLSource downloads an image.
type URLSource struct {
	URL        string
	Downloader *ImageDownloader
}

func (s URLSource) Capture(ctx context.Context) (prediction.Image, error) {
	d := s.Downloader
	if d == nil {
		d = NewImageDownloader()
	}
	data, contentType, err := d.Download(ctx, s.URL)
	if err != nil {
		return prediction.Image{}, err
	}
	mimeType, _, _ := strings.Cut(contentType, ";")
	return prediction.NewImage(data, strings.TrimSpace(mimeType)), nil
}

// Resolve picks a Source for user input. "camera" and "camera:N" select a
// local camera, data: and bare base64 text is decoded, http(s) URLs are
// downloaded, and anything else is treated as a file path.
func Resolve(input string, maxSize int64, downloader *ImageDownloader) (Source, error) {
	input = strings.TrimSpace(input)
	switch {
	case input == "":
		return nil, errors.New("no image given")
	case input == "camera" || strings.HasPrefix(input, "camera:"):
		device := 0
		if _, idx, ok := strings.Cut(input, ":"); ok {
			n, err := strconv.Atoi(idx)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid camera index %q", idx)
			}
			device = n
		}
		return CameraSource{Device: device}, nil
	case strings.HasPrefix(input, "data:"):
		return DataURISource{Text: input, MaxSize: maxSize}, nil
	case strings.HasPrefix(input, "http://"), strings.HasPrefix(input, "https://"):
		if downloader == nil {
			downloader = NewImageDownloader()
		}
		return URLSource{URL: input, Downloader: downloader.WithMaxSize(maxOrDefault(maxSize))}, nil
	}
	if _, err := os.Stat(input); err == nil {
		return FileSource{Path: input, MaxSize: maxSize}, nil
	}
	if _, err := prediction.DecodeDataURI(input); err == nil && len(input) > 64 {
		return DataURISource{Text: input, MaxSize: maxSize}, nil
	}
	return FileSource{Path: input, MaxSize: maxSize}, nil
}

func maxOrDefault(n int64) int64 {
	if n <= 0 {
		return DefaultMaxImageSize
	}
	return n
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: exceeds limit of %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}
