package minimize

import (
	"math"
)

var (
	sqrtEps    = math.Sqrt(2.2e-16)
	goldenMean = 0.5 * (3 - math.Sqrt(5))
)

// Bounded minimises f on [lower, upper] with Brent's method: golden-section
// steps, switching to parabolic interpolation when it is making progress.
// The endpoints themselves are never evaluated.
//
// It stops when the bracket around the best point shrinks below
// 2*(sqrtEps*|x| + XTol/3), or after MaxEval evaluations.
func Bounded(f func(float64) float64, lower, upper float64, settings Settings) (Result, error) {
	if err := checkInterval(lower, upper); err != nil {
		return Result{}, err
	}
	s := settings.withDefaults()

	a, b := lower, upper
	// x is the best point so far, w the second best, v the previous w.
	x := a + goldenMean*(b-a)
	w, v := x, x
	fx := f(x)
	fw, fv := fx, fx
	fu := math.Inf(1)
	evals := 1

	var d, e float64 // last step and the step before it
	xm := 0.5 * (a + b)
	tol1 := sqrtEps*math.Abs(x) + s.XTol/3
	tol2 := 2 * tol1

	res := Result{Converged: true}
	for math.Abs(x-xm) > tol2-0.5*(b-a) {
		res.Iterations++
		golden := true

		if math.Abs(e) > tol1 {
			golden = false
			r := (x - w) * (fx - fv)
			q := (x - v) * (fx - fw)
			p := (x-v)*q - (x-w)*r
			q = 2 * (q - r)
			if q > 0 {
				p = -p
			}
			q = math.Abs(q)
			r = e
			e = d

			if math.Abs(p) < math.Abs(0.5*q*r) && p > q*(a-x) && p < q*(b-x) {
				d = p / q
				u := x + d
				// never step within tol2 of an endpoint
				if u-a < tol2 || b-u < tol2 {
					d = tol1 * sign(xm-x)
				}
			} else {
				golden = true
			}
		}

		if golden {
			if x >= xm {
				e = a - x
			} else {
				e = b - x
			}
			d = goldenMean * e
		}

		u := x + sign(d)*math.Max(math.Abs(d), tol1)
		fu = f(u)
		evals++

		if fu <= fx {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, fv = w, fw
			w, fw = x, fx
			x, fx = u, fu
		} else {
			if u < x {
				a = u
			} else {
				b = u
			}
			if fu <= fw || w == x {
				v, fv = w, fw
				w, fw = u, fu
			} else if fu <= fv || v == x || v == w {
				v, fv = u, fu
			}
		}

		xm = 0.5 * (a + b)
		tol1 = sqrtEps*math.Abs(x) + s.XTol/3
		tol2 = 2 * tol1

		if evals >= s.MaxEval {
			res.Converged = false
			break
		}
	}

	res.X, res.F, res.FuncEvals = x, fx, evals
	if math.IsNaN(x) || math.IsNaN(fx) || math.IsNaN(fu) {
		res.Converged = false
		return res, ErrNonFinite
	}
	return res, nil
}

// sign returns -1 or 1; zero counts as positive.
func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
