package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Validate checks the inputs for which the closed form is defined.
// R may be any finite value, including negative.
func (p Params) Validate() error {
	switch {
	case !positive(p.S):
		return fmt.Errorf("%w: spot must be positive, got %v", ErrInvalidParameter, p.S)
	case !positive(p.K):
		return fmt.Errorf("%w: strike must be positive, got %v", ErrInvalidParameter, p.K)
	case !positive(p.T):
		return fmt.Errorf("%w: time to expiry must be positive, got %v", ErrInvalidParameter, p.T)
	case !positive(p.Sigma):
		return fmt.Errorf("%w: volatility must be positive, got %v", ErrInvalidParameter, p.Sigma)
	case math.IsNaN(p.R) || math.IsInf(p.R, 0):
		return fmt.Errorf("%w: risk-free rate must be finite, got %v", ErrInvalidParameter, p.R)
	}
	return nil
}

// D1D2 returns the standardised moneyness terms of the Black-Scholes formula.
func D1D2(p Params) (d1, d2 float64) {
	sqrtT := math.Sqrt(p.T)
	d1 = (math.Log(p.S/p.K) + (p.R+0.5*p.Sigma*p.Sigma)*p.T) / (p.Sigma * sqrtT)
	d2 = d1 - p.Sigma*sqrtT
	return d1, d2
}

// Price returns the Black-Scholes value of a European option. The result is
// not clamped at zero.
func Price(optType OptionType, p Params) (float64, error) {
	if !optType.Valid() {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidOptionType, string(optType))
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	return price(optType, p), nil
}

// price skips validation; callers must have checked optType and p.
func price(optType OptionType, p Params) float64 {
	d1, d2 := D1D2(p)
	discK := p.K * math.Exp(-p.R*p.T)
	if optType == Call {
		return p.S*normCDF(d1) - discK*normCDF(d2)
	}
	return discK*normCDF(-d2) - p.S*normCDF(-d1)
}

func CallPrice(S, K, T, r, sigma float64) (float64, error) {
	return Price(Call, Params{S: S, K: K, T: T, R: r, Sigma: sigma})
}

func PutPrice(S, K, T, r, sigma float64) (float64, error) {
	return Price(Put, Params{S: S, K: K, T: T, R: r, Sigma: sigma})
}

// Pricer returns a closure over everything but sigma, for use as the inner
// loop of a volatility search. S, K, T and r are validated once here; the
// closure itself does not check sigma.
func Pricer(optType OptionType, S, K, T, r float64) (func(sigma float64) float64, error) {
	if !optType.Valid() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidOptionType, string(optType))
	}
	// Sigma is a placeholder, it is supplied per call.
	if err := (Params{S: S, K: K, T: T, R: r, Sigma: 1}).Validate(); err != nil {
		return nil, err
	}
	return func(sigma float64) float64 {
		return price(optType, Params{S: S, K: K, T: T, R: r, Sigma: sigma})
	}, nil
}

// Greeks computes the price and first-order sensitivities. Theta is per
// year, vega and rho are per unit change rather than per percentage point.
func Greeks(optType OptionType, p Params) (BSMResult, error) {
	if !optType.Valid() {
		return BSMResult{}, fmt.Errorf("%w: got %q", ErrInvalidOptionType, string(optType))
	}
	if err := p.Validate(); err != nil {
		return BSMResult{}, err
	}

	d1, d2 := D1D2(p)
	sqrtT := math.Sqrt(p.T)
	discK := p.K * math.Exp(-p.R*p.T)
	pdf := normPDF(d1)

	res := BSMResult{
		Price: price(optType, p),
		Gamma: pdf / (p.S * p.Sigma * sqrtT),
		Vega:  p.S * pdf * sqrtT,
	}
	decay := -(p.S * pdf * p.Sigma) / (2 * sqrtT)
	if optType == Call {
		res.Delta = normCDF(d1)
		res.Theta = decay - p.R*discK*normCDF(d2)
		res.Rho = p.T * discK * normCDF(d2)
	} else {
		res.Delta = normCDF(d1) - 1
		res.Theta = decay + p.R*discK*normCDF(-d2)
		res.Rho = -p.T * discK * normCDF(-d2)
	}
	return res, nil
}

// IntrinsicLowerBound is the no-arbitrage floor: max(S-K*e^(-rT), 0) for a
// call and max(K*e^(-rT)-S, 0) for a put.
func IntrinsicLowerBound(optType OptionType, S, K, T, r float64) float64 {
	fwd := S - K*math.Exp(-r*T)
	if optType == Put {
		fwd = -fwd
	}
	return math.Max(fwd, 0)
}

func normCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

func normPDF(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}
