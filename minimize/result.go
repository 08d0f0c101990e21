// Package minimize provides derivative-free minimisers for functions of one
// variable restricted to a closed interval.
package minimize

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNonFinite is returned when the objective evaluates to NaN. The
	// accompanying Result still holds the best point seen.
	ErrNonFinite = errors.New("objective returned a non-finite value")
	// ErrInvalidInterval is returned when the bounds are not finite with lower < upper.
	ErrInvalidInterval = errors.New("invalid search interval")
)

const (
	DefaultXTol    = 1e-5
	DefaultMaxEval = 500
)

// Settings controls termination. Zero values select the defaults.
type Settings struct {
	XTol    float64 // absolute tolerance on x
	MaxEval int     // cap on objective evaluations
}

func (s Settings) withDefaults() Settings {
	if s.XTol <= 0 {
		s.XTol = DefaultXTol
	}
	if s.MaxEval <= 0 {
		s.MaxEval = DefaultMaxEval
	}
	return s
}

// Result is the best point found. Converged is false when the evaluation
// budget ran out first; X is still the best point seen.
type Result struct {
	X          float64 `json:"x"`
	F          float64 `json:"f"`
	Iterations int     `json:"iterations"`
	FuncEvals  int     `json:"func_evals"`
	Converged  bool    `json:"converged"`
}

func checkInterval(lower, upper float64) error {
	if math.IsNaN(lower) || math.IsNaN(upper) || math.IsInf(lower, 0) || math.IsInf(upper, 0) || lower >= upper {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidInterval, lower, upper)
	}
	return nil
}
