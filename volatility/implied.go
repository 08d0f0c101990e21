// Package volatility inverts the Black-Scholes formula: given an observed
// option premium it searches for the volatility that reproduces it.
package volatility

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/ivsolve/minimize"
	"github.com/bcdannyboy/ivsolve/models"
)

// Result is the outcome of one search. PricingError is
// |price(Sigma) - observed| at the returned Sigma.
type Result struct {
	Sigma        float64 `json:"sigma"`
	PricingError float64 `json:"pricing_error"`
	Iterations   int     `json:"iterations"`
	FuncEvals    int     `json:"func_evals"`
	Converged    bool    `json:"converged"`
}

// Inverter is immutable after construction and safe for concurrent use.
type Inverter struct {
	cfg Config
}

func NewInverter(cfg Config) (*Inverter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Inverter{cfg: cfg}, nil
}

var defaultInverter = &Inverter{cfg: DefaultConfig()}

// ImpliedVolatility solves with the default configuration.
func ImpliedVolatility(observed, S, K, T, r float64, optType models.OptionType) (float64, error) {
	return defaultInverter.ImpliedVolatility(observed, S, K, T, r, optType)
}

func (inv *Inverter) Config() Config {
	return inv.cfg
}

func (inv *Inverter) ImpliedVolatility(observed, S, K, T, r float64, optType models.OptionType) (float64, error) {
	res, err := inv.Solve(observed, S, K, T, r, optType)
	if err != nil {
		return 0, err
	}
	return res.Sigma, nil
}

// Solve minimises |price(sigma) - observed| over the configured bounds.
//
// The best sigma found is returned even when the search runs out of
// iterations; Converged reports which case occurred. Prices outside the
// no-arbitrage range are not rejected: the search settles at whichever
// bound is closest in price.
func (inv *Inverter) Solve(observed, S, K, T, r float64, optType models.OptionType) (Result, error) {
	if !optType.Valid() {
		return Result{}, fmt.Errorf("%w: got %q", models.ErrInvalidOptionType, string(optType))
	}
	if math.IsNaN(observed) || math.IsInf(observed, 0) || observed < 0 {
		return Result{}, fmt.Errorf("%w: observed price must be non-negative, got %v", models.ErrInvalidParameter, observed)
	}
	price, err := models.Pricer(optType, S, K, T, r)
	if err != nil {
		return Result{}, err
	}

	objective := func(sigma float64) float64 {
		return math.Abs(price(sigma) - observed)
	}

	search := minimize.Bounded
	if inv.cfg.Method == MethodNelderMead {
		search = minimize.NelderMead
	}
	m, err := search(objective, inv.cfg.LowerBound, inv.cfg.UpperBound, minimize.Settings{
		XTol:    inv.cfg.Tolerance,
		MaxEval: inv.cfg.MaxIterations,
	})
	res := Result{
		Sigma:        m.X,
		PricingError: m.F,
		Iterations:   m.Iterations,
		FuncEvals:    m.FuncEvals,
		Converged:    m.Converged,
	}
	if err != nil {
		return res, fmt.Errorf("implied volatility for %s: %w", optType, err)
	}
	return res, nil
}
