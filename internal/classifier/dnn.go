//go:build gocv

package classifier

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
)

const (
	topN      = 5
	inputSize = 224
)

// DNNClassifier runs an ImageNet ONNX model on-device through OpenCV DNN.
// The network is loaded on first use and reused afterwards.
type DNNClassifier struct {
	modelPath  string
	labelsPath string

	once    sync.Once
	loadErr error
	mu      sync.Mutex
	net     gocv.Net
	loaded  bool
	labels  []string
}

func NewDNNClassifier(modelPath, labelsPath string) *DNNClassifier {
	return &DNNClassifier{modelPath: modelPath, labelsPath: labelsPath}
}

func (c *DNNClassifier) load() error {
	c.once.Do(func() {
		f, err := os.Open(c.labelsPath)
		if err != nil {
			c.loadErr = fmt.Errorf("failed to open labels: %w", err)
			return
		}
		defer f.Close()
		if c.labels, err = readLabels(f); err != nil {
			c.loadErr = err
			return
		}

		if _, err := os.Stat(c.modelPath); err != nil {
			c.loadErr = fmt.Errorf("model file not found: %s", c.modelPath)
			return
		}
		net := gocv.ReadNetFromONNX(c.modelPath)
		if net.Empty() {
			net.Close()
			c.loadErr = fmt.Errorf("failed to load network from %s", c.modelPath)
			return
		}
		if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
			net.Close()
			c.loadErr = fmt.Errorf("failed to set backend: %w", err)
			return
		}
		if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
			net.Close()
			c.loadErr = fmt.Errorf("failed to set target: %w", err)
			return
		}
		c.net = net
		c.loaded = true
		log.Info().Str("model", c.modelPath).Int("labels", len(c.labels)).Msg("classification network loaded")
	})
	return c.loadErr
}

func (c *DNNClassifier) Warmup(ctx context.Context) error {
	return c.load()
}

func (c *DNNClassifier) Classify(ctx context.Context, img []byte) ([]Label, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := gocv.IMDecode(img, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("decoded image is empty")
	}

	// RGB in [0,1], NCHW
	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(inputSize, inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()
	pixels, err := blob.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read input blob: %w", err)
	}
	normalizeImageNet(pixels, inputSize*inputSize)

	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return nil, fmt.Errorf("classifier is closed")
	}
	c.net.SetInput(blob, "")
	output := c.net.Forward("")
	c.mu.Unlock()
	defer output.Close()

	logits, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read network output: %w", err)
	}
	return rank(softmax(logits), c.labels, topN), nil
}

func (c *DNNClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return nil
	}
	c.loaded = false
	return c.net.Close()
}
