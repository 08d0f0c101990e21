package minimize

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// NelderMead minimises f on [lower, upper] with gonum's Nelder-Mead simplex,
// starting from the geometric midpoint of the interval. Points outside the
// interval are evaluated at the nearest bound plus their distance to it, so
// the simplex is pushed back inside.
func NelderMead(f func(float64) float64, lower, upper float64, settings Settings) (Result, error) {
	if err := checkInterval(lower, upper); err != nil {
		return Result{}, err
	}
	s := settings.withDefaults()

	clamp := func(x float64) float64 {
		return math.Min(math.Max(x, lower), upper)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			c := clamp(x[0])
			return f(c) + math.Abs(x[0]-c)
		},
	}

	start := 0.5 * (lower + upper)
	if lower > 0 {
		start = math.Sqrt(lower * upper)
	}

	method := &optimize.NelderMead{SimplexSize: 0.1 * (upper - lower)}
	result, err := optimize.Minimize(problem, []float64{start}, &optimize.Settings{
		FuncEvaluations: s.MaxEval,
		Converger: &optimize.FunctionConverge{
			Absolute:   s.XTol * s.XTol,
			Iterations: 50,
		},
	}, method)
	if result == nil {
		return Result{}, err
	}

	res := Result{
		X:          clamp(result.X[0]),
		Iterations: result.Stats.MajorIterations,
		FuncEvals:  result.Stats.FuncEvaluations,
		Converged:  err == nil && !result.Status.Early(),
	}
	res.F = f(res.X)
	if math.IsNaN(res.F) {
		res.Converged = false
		return res, ErrNonFinite
	}
	return res, nil
}
