// Package pricing orchestrates the prediction strategies. The remote model is
// tried first, the local classifier second, and the sentinel result is used
// when both fail, so callers always receive a well-formed Result.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/raine/pricesnap/internal/prediction"
	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 30 * time.Second

// Predictor is one prediction strategy.
type Predictor interface {
	Predict(ctx context.Context, img prediction.Image) prediction.Outcome
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(ctx context.Context, img prediction.Image) prediction.Outcome

func (f PredictorFunc) Predict(ctx context.Context, img prediction.Image) prediction.Outcome {
	return f(ctx, img)
}

type Option func(*Service)

// WithRemoteTimeout bounds the remote attempt. Zero disables the deadline.
func WithRemoteTimeout(d time.Duration) Option {
	return func(s *Service) { s.remoteTimeout = d }
}

// WithLocalTimeout bounds the local attempt. Zero disables the deadline.
func WithLocalTimeout(d time.Duration) Option {
	return func(s *Service) { s.localTimeout = d }
}

type Service struct {
	remote        Predictor
	local         Predictor
	remoteTimeout time.Duration
	localTimeout  time.Duration
}

func NewService(remote, local Predictor, opts ...Option) *Service {
	s := &Service{
		remote:        remote,
		local:         local,
		remoteTimeout: DefaultTimeout,
		localTimeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report describes how a Result was produced.
type Report struct {
	RequestID string
	Result    prediction.Result
	Source    prediction.Source
	RemoteErr error
	LocalErr  error
}

// Degraded reports whether the remote model did not produce the result.
func (r Report) Degraded() bool {
	return r.Source != prediction.SourceRemote
}

func (r Report) MarshalJSON() ([]byte, error) {
	errString := func(err error) string {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	return json.Marshal(struct {
		RequestID   string            `json:"requestId"`
		Result      prediction.Result `json:"result"`
		Source      prediction.Source `json:"source"`
		RemoteError string            `json:"remoteError,omitempty"`
		LocalError  string            `json:"localError,omitempty"`
	}{r.RequestID, r.Result, r.Source, errString(r.RemoteErr), errString(r.LocalErr)})
}

// Predict accepts base64 image text, optionally with a data URI prefix, and
// always returns a valid Result.
func (s *Service) Predict(ctx context.Context, imageData string) prediction.Result {
	img, err := prediction.DecodeDataURI(imageData)
	if err != nil {
		log.Error().Err(err).Msg("could not decode captured image")
		return prediction.Sentinel()
	}
	return s.Analyze(ctx, img).Result
}

// Analyze runs the remote strategy and falls back to the local one. It never
// fails; the worst case is the sentinel result.
func (s *Service) Analyze(ctx context.Context, img prediction.Image) Report {
	report := Report{RequestID: uuid.NewString()}
	logger := log.With().Str("requestId", report.RequestID).Logger()

	remote := s.attempt(ctx, "remote", s.remote, s.remoteTimeout, prediction.ErrConfiguration, img)
	if remote.OK() {
		report.Result, report.Source = remote.Result, prediction.SourceRemote
		logger.Info().Str("source", string(report.Source)).Str("object", report.Result.ObjectName).Msg("prediction done")
		return report
	}
	report.RemoteErr = remote.Err
	logger.Warn().Err(remote.Err).AnErr("kind", prediction.KindOf(remote.Err)).Msg("remote prediction failed, using local classifier")

	local := s.attempt(ctx, "local", s.local, s.localTimeout, prediction.ErrClassifier, img)
	if local.OK() {
		report.Result, report.Source = local.Result, prediction.SourceLocal
		logger.Info().Str("source", string(report.Source)).Str("object", report.Result.ObjectName).Msg("prediction done")
		return report
	}
	report.LocalErr = local.Err
	logger.Error().Err(local.Err).AnErr("kind", prediction.KindOf(local.Err)).Msg("local prediction failed, returning placeholder")

	report.Result, report.Source = prediction.Sentinel(), prediction.SourceFallback
	return report
}

// attempt runs one strategy under its own deadline. Missing predictors,
// panics and malformed results all become failures.
func (s *Service) attempt(ctx context.Context, name string, p Predictor, timeout time.Duration, missingKind error, img prediction.Image) (out prediction.Outcome) {
	op := name + ".attempt"
	if p == nil {
		return prediction.Failure(prediction.NewError(op, missingKind, errors.New("no predictor configured")))
	}
	defer func() {
		if r := recover(); r != nil {
			out = prediction.Failure(fmt.Errorf("%s panicked: %v", name, r))
		}
	}()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out = p.Predict(ctx, img)
	if !out.OK() {
		return out
	}
	if err := out.Result.Validate(); err != nil {
		return prediction.Failure(fmt.Errorf("%s returned an invalid result: %w", name, err))
	}
	return out
}
