//go:build !gocv

package classifier

import (
	"context"
	"errors"
)

// ErrDNNUnavailable is returned when the binary was built without the gocv tag.
var ErrDNNUnavailable = errors.New("on-device classifier requires building with -tags gocv")

type DNNClassifier struct{}

func NewDNNClassifier(modelPath, labelsPath string) *DNNClassifier {
	return &DNNClassifier{}
}

func (c *DNNClassifier) Warmup(ctx context.Context) error {
	return ErrDNNUnavailable
}

func (c *DNNClassifier) Classify(ctx context.Context, img []byte) ([]Label, error) {
	return nil, ErrDNNUnavailable
}

func (c *DNNClassifier) Close() error {
	return nil
}
