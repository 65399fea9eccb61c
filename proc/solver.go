package proc

import (
	"errors"
	"math"
)

// Root solver failures. Both mean the result must not be used: a partially
// converged split corrupts the downstream mass balance.
var (
	ErrNoSignChange  = errors.New("root solver: objective has no sign change over the bracket")
	ErrMaxIterations = errors.New("root solver: iteration budget exhausted")
)

// RootSolver finds a root of a scalar function inside a fixed bracket using
// false-position steps with a bisection fallback. Zero-valued fields take
// the package defaults.
type RootSolver struct {
	MaxIter int     // default 50
	XTol    float64 // bracket width tolerance, default 1e-8
	YTol    float64 // residual tolerance, default 1e-9
}

const (
	defaultMaxIter = 50
	defaultXTol    = 1e-8
	defaultYTol    = 1e-9
)

// Solve returns x in [x0, x1] with f(x) ~ 0. f must have opposite signs at
// the bracket ends; ErrNoSignChange is returned otherwise. The returned x is
// always the last point f was evaluated at, so side effects of f reflect the
// solution when err is nil.
func (rs RootSolver) Solve(f func(float64) float64, x0, x1 float64) (float64, error) {
	maxIter := rs.MaxIter
	if maxIter <= 0 {
		maxIter = defaultMaxIter
	}
	xtol := rs.XTol
	if xtol <= 0 {
		xtol = defaultXTol
	}
	ytol := rs.YTol
	if ytol <= 0 {
		ytol = defaultYTol
	}

	y0 := f(x0)
	if math.Abs(y0) <= ytol {
		// re-evaluate so side effects land on the returned point
		f(x0)
		return x0, nil
	}
	y1 := f(x1)
	if math.Abs(y1) <= ytol {
		return x1, nil
	}
	if y0*y1 > 0 {
		return 0, ErrNoSignChange
	}

	for i := 0; i < maxIter; i++ {
		// Alternate false-position and bisection steps: interpolation for
		// speed, bisection so the bracket provably shrinks.
		mid := 0.5 * (x0 + x1)
		x := mid
		if i%2 == 0 {
			fp := x1 - y1*(x1-x0)/(y1-y0)
			if fp > math.Min(x0, x1) && fp < math.Max(x0, x1) && math.Abs(fp-mid) <= 0.4*math.Abs(x1-x0) {
				x = fp
			}
		}
		y := f(x)
		if math.Abs(y) <= ytol {
			return x, nil
		}
		if y0*y < 0 {
			x1, y1 = x, y
		} else {
			x0, y0 = x, y
		}
		if math.Abs(x1-x0) <= xtol {
			return x, nil
		}
	}
	return 0, ErrMaxIterations
}
