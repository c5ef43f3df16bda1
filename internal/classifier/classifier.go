// Package classifier provides the local image-classification collaborators
// used by the fallback prediction path.
package classifier

import (
	"context"
	"sort"
)

// Label is one ranked classification.
type Label struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier ranks what an image shows. Implementations return labels sorted
// by descending score.
type Classifier interface {
	Classify(ctx context.Context, image []byte) ([]Label, error)
}

// Warmer is implemented by classifiers that benefit from loading their model
// before the first request.
type Warmer interface {
	Warmup(ctx context.Context) error
}

// Func adapts a function to the Classifier interface.
type Func func(ctx context.Context, image []byte) ([]Label, error)

func (f Func) Classify(ctx context.Context, image []byte) ([]Label, error) {
	return f(ctx, image)
}

// Top returns the highest ranked label, if any.
func Top(labels []Label) (Label, bool) {
	if len(labels) == 0 {
		return Label{}, false
	}
	return labels[0], true
}

func sortByScore(labels []Label) {
	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Score > labels[j].Score
	})
}
