package volatility

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/bcdannyboy/ivsolve/models"
)

func mustPrice(t *testing.T, optType models.OptionType, S, K, T, r, sigma float64) float64 {
	t.Helper()
	p, err := models.Price(optType, models.Params{S: S, K: K, T: T, R: r, Sigma: sigma})
	require.NoError(t, err)
	return p
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, 0.01, cfg.LowerBound)
	require.Equal(t, 6.0, cfg.UpperBound)
	require.Equal(t, MethodBounded, cfg.Method)
	require.NoError(t, cfg.Validate())
}

func TestImpliedVolatilityReference(t *testing.T) {
	iv, err := ImpliedVolatility(10.4506, 100, 100, 1, 0.05, models.Call)
	require.NoError(t, err)
	require.InDelta(t, 0.2, iv, 1e-3)

	iv, err = ImpliedVolatility(5.5735, 100, 100, 1, 0.05, models.Put)
	require.NoError(t, err)
	require.InDelta(t, 0.2, iv, 1e-3)
}

func TestRoundTripGrid(t *testing.T) {
	for _, optType := range []models.OptionType{models.Call, models.Put} {
		var total, ok int
		for _, K := range []float64{80, 90, 100, 110, 120} {
			for _, T := range []float64{0.25, 0.5, 1, 2} {
				for _, r := range []float64{0, 0.05} {
					for _, sigma := range []float64{0.05, 0.1, 0.2, 0.35, 0.6, 1.2, 2.0, 3.0} {
						p := mustPrice(t, optType, 100, K, T, r, sigma)
						iv, err := ImpliedVolatility(p, 100, K, T, r, optType)
						require.NoError(t, err)
						total++
						if math.Abs(iv-sigma) < 1e-3 {
							ok++
						}
					}
				}
			}
		}
		require.GreaterOrEqual(t, float64(ok)/float64(total), 0.95, "%s recovered %d of %d", optType, ok, total)
	}
}

func TestRoundTripRandomSample(t *testing.T) {
	rng := rand.New(rand.NewSource(20240601))
	inv, err := NewInverter(DefaultConfig())
	require.NoError(t, err)

	const n = 500
	ok := 0
	for i := 0; i < n; i++ {
		S := 50 + 100*rng.Float64()
		K := S * (0.8 + 0.4*rng.Float64())
		T := 0.1 + 1.9*rng.Float64()
		r := 0.08 * rng.Float64()
		sigma := 0.05 + 2.95*rng.Float64()

		p := mustPrice(t, models.Call, S, K, T, r, sigma)
		res, err := inv.Solve(p, S, K, T, r, models.Call)
		require.NoError(t, err)
		require.True(t, res.Sigma >= 0.01 && res.Sigma <= 6.0)
		if math.Abs(res.Sigma-sigma) < 1e-3 {
			ok++
		}
	}
	require.GreaterOrEqual(t, float64(ok)/n, 0.95)
}

func TestInvalidOptionType(t *testing.T) {
	_, err := ImpliedVolatility(10, 100, 100, 1, 0.05, models.OptionType("straddle"))
	require.ErrorIs(t, err, models.ErrInvalidOptionType)
}

func TestInvalidInputs(t *testing.T) {
	_, err := ImpliedVolatility(-1, 100, 100, 1, 0.05, models.Call)
	require.ErrorIs(t, err, models.ErrInvalidParameter)
	_, err = ImpliedVolatility(math.NaN(), 100, 100, 1, 0.05, models.Call)
	require.ErrorIs(t, err, models.ErrInvalidParameter)
	_, err = ImpliedVolatility(10, 100, 0, 1, 0.05, models.Call)
	require.ErrorIs(t, err, models.ErrInvalidParameter)
	_, err = ImpliedVolatility(10, 100, 100, 0, 0.05, models.Put)
	require.ErrorIs(t, err, models.ErrInvalidParameter)
}

func TestPriceBelowNoArbitrageBound(t *testing.T) {
	floor := models.IntrinsicLowerBound(models.Call, 100, 80, 1, 0.05)
	for _, observed := range []float64{floor, floor - 1, 0} {
		res, err := defaultInverter.Solve(observed, 100, 80, 1, 0.05, models.Call)
		require.NoError(t, err)
		require.GreaterOrEqual(t, res.Sigma, 0.01)
		// time value underflows below roughly 3.5%, so the objective is flat there
		require.Less(t, res.Sigma, 0.05, "observed %v", observed)
	}
}

func TestPriceAboveSpotSettlesAtUpperBound(t *testing.T) {
	res, err := defaultInverter.Solve(150, 100, 100, 1, 0.05, models.Call)
	require.NoError(t, err)
	require.LessOrEqual(t, res.Sigma, 6.0)
	require.Greater(t, res.Sigma, 5.9)
}

func TestNonConvergenceReturnsBestSoFar(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIterations = 3
	inv, err := NewInverter(cfg)
	require.NoError(t, err)

	res, err := inv.Solve(10.4506, 100, 100, 1, 0.05, models.Call)
	require.NoError(t, err)
	require.False(t, res.Converged)
	require.Equal(t, 3, res.FuncEvals)
	require.True(t, res.Sigma > 0.01 && res.Sigma < 6.0)

	full, err := defaultInverter.Solve(10.4506, 100, 100, 1, 0.05, models.Call)
	require.NoError(t, err)
	require.True(t, full.Converged)
	require.Less(t, full.PricingError, res.PricingError)
}

func TestCustomBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LowerBound, cfg.UpperBound = 0.3, 0.5
	inv, err := NewInverter(cfg)
	require.NoError(t, err)

	iv, err := inv.ImpliedVolatility(10.4506, 100, 100, 1, 0.05, models.Call)
	require.NoError(t, err)
	require.InDelta(t, 0.3, iv, 1e-3)
}

func TestInvalidConfig(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"zero lower":     func(c *Config) { c.LowerBound = 0 },
		"inverted":       func(c *Config) { c.LowerBound, c.UpperBound = 2, 1 },
		"infinite upper": func(c *Config) { c.UpperBound = math.Inf(1) },
		"zero tolerance": func(c *Config) { c.Tolerance = 0 },
		"no iterations":  func(c *Config) { c.MaxIterations = 0 },
		"unknown method": func(c *Config) { c.Method = "newton" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			_, err := NewInverter(cfg)
			require.ErrorIs(t, err, ErrInvalidBounds)
		})
	}
}

func TestNelderMeadMethod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Method = MethodNelderMead
	inv, err := NewInverter(cfg)
	require.NoError(t, err)

	for _, optType := range []models.OptionType{models.Call, models.Put} {
		p := mustPrice(t, optType, 100, 100, 1, 0.05, 0.25)
		iv, err := inv.ImpliedVolatility(p, 100, 100, 1, 0.05, optType)
		require.NoError(t, err)
		require.InDelta(t, 0.25, iv, 1e-3)
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("nelder-mead")
	require.NoError(t, err)
	require.Equal(t, MethodNelderMead, m)
	_, err = ParseMethod("secant")
	require.ErrorIs(t, err, ErrInvalidBounds)
}

func TestConcurrentSolves(t *testing.T) {
	want, err := ImpliedVolatility(10.4506, 100, 100, 1, 0.05, models.Call)
	require.NoError(t, err)

	var wg sync.WaitGroup
	got := make([]float64, 32)
	errs := make([]error, 32)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], errs[i] = ImpliedVolatility(10.4506, 100, 100, 1, 0.05, models.Call)
		}(i)
	}
	wg.Wait()
	for i := range got {
		require.NoError(t, errs[i])
		require.Equal(t, want, got[i])
	}
}
