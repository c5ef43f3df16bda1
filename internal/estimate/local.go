package estimate

import (
	"context"
	"time"

	"github.com/raine/pricesnap/internal/classifier"
	"github.com/raine/pricesnap/internal/prediction"
	"github.com/rs/zerolog/log"
)

// LocalPredictor classifies the image on the local collaborator and feeds the
// top label to an Estimator.
type LocalPredictor struct {
	classifier classifier.Classifier
	estimator  *Estimator
}

func NewLocalPredictor(c classifier.Classifier, e *Estimator) *LocalPredictor {
	if e == nil {
		e = &Estimator{}
	}
	return &LocalPredictor{classifier: c, estimator: e}
}

func (p *LocalPredictor) Predict(ctx context.Context, img prediction.Image) prediction.Outcome {
	const op = "local.predict"
	if p.classifier == nil {
		return prediction.Failure(prediction.NewError(op, prediction.ErrClassifier, errNoClassifier))
	}

	start := time.Now()
	labels, err := p.classifier.Classify(ctx, img.Data)
	if err != nil {
		return prediction.Failure(prediction.NewError(op, prediction.ErrClassifier, err))
	}

	label, score := prediction.UnknownObject, defaultScore
	if top, ok := classifier.Top(labels); ok && top.Label != "" {
		label, score = top.Label, top.Score
	}
	log.Info().
		Str("label", label).
		Float64("score", score).
		Dur("duration", time.Since(start)).
		Msg("local classification")

	return prediction.Success(prediction.SourceLocal, p.estimator.Estimate(label, score))
}
