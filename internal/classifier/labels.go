package classifier

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
)

// readLabels reads one class name per line. Blank lines are kept so that
// line numbers stay aligned with class indices.
func readLabels(r io.Reader) ([]string, error) {
	var labels []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		labels = append(labels, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	for len(labels) > 0 && labels[len(labels)-1] == "" {
		labels = labels[:len(labels)-1]
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file is empty")
	}
	return labels, nil
}

// ImageNet channel statistics in RGB order.
var (
	imageNetMean = [3]float32{0.485, 0.456, 0.406}
	imageNetStd  = [3]float32{0.229, 0.224, 0.225}
)

// normalizeImageNet standardizes an RGB planar tensor scaled to [0,1] in
// place. plane is the number of pixels per channel.
func normalizeImageNet(pixels []float32, plane int) {
	for c := 0; c < 3; c++ {
		start, end := c*plane, (c+1)*plane
		if end > len(pixels) {
			return
		}
		for i := start; i < end; i++ {
			pixels[i] = (pixels[i] - imageNetMean[c]) / imageNetStd[c]
		}
	}
}

func softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := float64(logits[0])
	for _, l := range logits[1:] {
		maxLogit = math.Max(maxLogit, float64(l))
	}
	out := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		out[i] = math.Exp(float64(l) - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// rank pairs probabilities with labels and returns the best n, highest first.
func rank(probs []float64, labels []string, n int) []Label {
	ranked := make([]Label, 0, len(probs))
	for i, p := range probs {
		name := fmt.Sprintf("class %d", i)
		if i < len(labels) && labels[i] != "" {
			name = labels[i]
		}
		ranked = append(ranked, Label{Label: name, Score: p})
	}
	sortByScore(ranked)
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
