//go:build gocv

package capture

import (
	"context"
	"fmt"

	"github.com/raine/pricesnap/internal/prediction"
	"gocv.io/x/gocv"
)

// warmupFrames are read and discarded so auto exposure can settle.
const warmupFrames = 5

// CameraSource grabs a single frame from a local camera.
type CameraSource struct {
	Device int
}

func (s CameraSource) Capture(ctx context.Context) (prediction.Image, error) {
	cam, err := gocv.OpenVideoCapture(s.Device)
	if err != nil {
		return prediction.Image{}, fmt.Errorf("failed to open camera %d: %w", s.Device, err)
	}
	defer cam.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	for i := 0; i <= warmupFrames; i++ {
		if err := ctx.Err(); err != nil {
			return prediction.Image{}, err
		}
		if ok := cam.Read(&frame); !ok {
			return prediction.Image{}, fmt.Errorf("failed to read frame from camera %d", s.Device)
		}
	}
	if frame.Empty() {
		return prediction.Image{}, fmt.Errorf("camera %d returned an empty frame", s.Device)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		return prediction.Image{}, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	data := append([]byte(nil), buf.GetBytes()...)
	return prediction.NewImage(data, "image/jpeg"), nil
}
