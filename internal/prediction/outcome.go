package prediction

// Source identifies which strategy produced a Result.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceLocal    Source = "local"
	SourceFallback Source = "fallback"
)

// Outcome is what a predictor returns: either a Result or the reason it has none.
type Outcome struct {
	Result Result
	Source Source
	Err    error
}

// Success wraps a result produced by src.
func Success(src Source, r Result) Outcome {
	return Outcome{Result: r, Source: src}
}

// Failure wraps err. The result of a failed outcome must not be used.
func Failure(err error) Outcome {
	return Outcome{Err: err}
}

// OK reports whether the outcome carries a usable result.
func (o Outcome) OK() bool {
	return o.Err == nil
}
