package prediction

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const defaultMIMEType = "image/jpeg"

// Image is an encoded picture ready to be sent to a predictor.
type Image struct {
	Data     []byte
	MIMEType string
}

// NewImage wraps data, detecting the MIME type from its bytes when mimeType is empty.
func NewImage(data []byte, mimeType string) Image {
	if mt := strings.TrimSpace(mimeType); mt != "" {
		return Image{Data: data, MIMEType: mt}
	}
	return Image{Data: data, MIMEType: DetectMIMEType(data)}
}

// DetectMIMEType sniffs the image type, defaulting to JPEG for anything that
// does not look like an image.
func DetectMIMEType(data []byte) string {
	if len(data) == 0 {
		return defaultMIMEType
	}
	mt := http.DetectContentType(data)
	if !strings.HasPrefix(mt, "image/") {
		return defaultMIMEType
	}
	return mt
}

// Base64 returns the standard base64 encoding of the image bytes.
func (img Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

// DataURI returns the image as a data:<mime>;base64,<payload> URI.
func (img Image) DataURI() string {
	mt := img.MIMEType
	if mt == "" {
		mt = defaultMIMEType
	}
	return "data:" + mt + ";base64," + img.Base64()
}

// DecodeDataURI decodes an image supplied as base64 text. A leading
// data:<mime>;base64, prefix is stripped and its MIME type kept.
func DecodeDataURI(s string) (Image, error) {
	s = strings.TrimSpace(s)
	var hint string
	if strings.HasPrefix(s, "data:") {
		idx := strings.IndexByte(s, ',')
		if idx < 0 {
			return Image{}, errors.New("malformed data URI: missing comma")
		}
		meta := s[len("data:"):idx]
		if semi := strings.IndexByte(meta, ';'); semi >= 0 {
			hint = meta[:semi]
		} else {
			hint = meta
		}
		s = s[idx+1:]
	}
	if s == "" {
		return Image{}, errors.New("empty image payload")
	}

	var data []byte
	var err error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if data, err = enc.DecodeString(s); err == nil {
			break
		}
	}
	if err != nil {
		return Image{}, fmt.Errorf("failed to decode base64 image: %w", err)
	}
	if len(data) == 0 {
		return Image{}, errors.New("empty image payload")
	}
	return NewImage(data, hint), nil
}
