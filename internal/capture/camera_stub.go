//go:build !gocv

package capture

import (
	"context"
	"errors"

	"github.com/raine/pricesnap/internal/prediction"
)

var ErrCameraUnavailable = errors.New("camera capture requires building with -tags gocv")

// CameraSource grabs a single frame from a local camera.
type CameraSource struct {
	Device int
}

func (s CameraSource) Capture(ctx context.Context) (prediction.Image, error) {
	return prediction.Image{}, ErrCameraUnavailable
}
