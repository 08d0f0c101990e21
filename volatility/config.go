package volatility

import (
	"errors"
	"fmt"
	"math"

	"github.com/bcdannyboy/ivsolve/minimize"
)

// ErrInvalidBounds is returned by NewInverter for an unusable search configuration.
var ErrInvalidBounds = errors.New("invalid volatility search configuration")

type Method string

const (
	// MethodBounded is Brent's bounded search; the default.
	MethodBounded Method = "bounded"
	// MethodNelderMead uses gonum's simplex search clamped to the bounds.
	MethodNelderMead Method = "nelder-mead"
)

const (
	DefaultLowerBound    = 0.01
	DefaultUpperBound    = 6.0
	DefaultTolerance     = minimize.DefaultXTol
	DefaultMaxIterations = minimize.DefaultMaxEval
)

// Config bounds the search for sigma. Volatilities are annualised decimals,
// so the defaults cover 1% to 600%.
type Config struct {
	LowerBound    float64 `json:"lower_bound"`
	UpperBound    float64 `json:"upper_bound"`
	Tolerance     float64 `json:"tolerance"`
	MaxIterations int     `json:"max_iterations"`
	Method        Method  `json:"method"`
}

func DefaultConfig() Config {
	return Config{
		LowerBound:    DefaultLowerBound,
		UpperBound:    DefaultUpperBound,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		Method:        MethodBounded,
	}
}

func (c Config) Validate() error {
	if !(c.LowerBound > 0) || math.IsInf(c.UpperBound, 0) || !(c.LowerBound < c.UpperBound) {
		return fmt.Errorf("%w: bounds must satisfy 0 < lower < upper, got [%v, %v]", ErrInvalidBounds, c.LowerBound, c.UpperBound)
	}
	if !(c.Tolerance > 0) {
		return fmt.Errorf("%w: tolerance must be positive, got %v", ErrInvalidBounds, c.Tolerance)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidBounds, c.MaxIterations)
	}
	switch c.Method {
	case MethodBounded, MethodNelderMead:
	default:
		return fmt.Errorf("%w: unknown method %q", ErrInvalidBounds, c.Method)
	}
	return nil
}

func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodBounded, MethodNelderMead:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown method %q", ErrInvalidBounds, s)
}
