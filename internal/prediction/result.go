// Package prediction holds the result schema shared by every prediction path,
// together with the error taxonomy and the helpers that keep results well formed.
package prediction

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// UnknownObject is the object name used when nothing could be identified.
	UnknownObject = "Unknown Object"
	// UnknownLocation is the import location used when the origin is not known.
	UnknownLocation = "Unknown"
)

// Result is the estimate produced for one captured image.
type Result struct {
	ObjectName        string  `json:"objectName"`
	Price             string  `json:"price"`
	ManufacturingCost string  `json:"manufacturingCost"`
	ImportLocation    string  `json:"importLocation"`
	Confidence        float64 `json:"confidence"`
}

// Sentinel returns the placeholder result used when every prediction strategy failed.
func Sentinel() Result {
	return Result{
		ObjectName:        UnknownObject,
		Price:             "$99.99",
		ManufacturingCost: "$45.00",
		ImportLocation:    UnknownLocation,
		Confidence:        0.5,
	}
}

// Validate reports whether all five fields are populated and correctly formatted.
func (r Result) Validate() error {
	var errs []error
	if strings.TrimSpace(r.ObjectName) == "" {
		errs = append(errs, errors.New("object name is empty"))
	}
	if err := validAmount(r.Price); err != nil {
		errs = append(errs, fmt.Errorf("price: %w", err))
	}
	if err := validAmount(r.ManufacturingCost); err != nil {
		errs = append(errs, fmt.Errorf("manufacturing cost: %w", err))
	}
	if strings.TrimSpace(r.ImportLocation) == "" {
		errs = append(errs, errors.New("import location is empty"))
	}
	if math.IsNaN(r.Confidence) || r.Confidence < 0 || r.Confidence > 1 {
		errs = append(errs, fmt.Errorf("confidence %v is outside [0,1]", r.Confidence))
	}
	return errors.Join(errs...)
}

// validAmount accepts any "$"-prefixed text, but a number in it must not be negative.
func validAmount(s string) error {
	if !strings.HasPrefix(s, CurrencySymbol) || len(s) == len(CurrencySymbol) {
		return fmt.Errorf("%q is not a currency amount", s)
	}
	if n, err := ParseUSD(s); err == nil && n < 0 {
		return fmt.Errorf("%q is negative", s)
	}
	return nil
}

// ClampConfidence limits c to [0,1]. NaN becomes 0.
func ClampConfidence(c float64) float64 {
	switch {
	case math.IsNaN(c), c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}
