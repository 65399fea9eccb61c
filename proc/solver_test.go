package proc

import (
	"errors"
	"math"
	"testing"
)

func TestRootSolver_FindsRoot(t *testing.T) {
	f := func(x float64) float64 { return x*x - 2 }
	x, err := RootSolver{}.Solve(f, 0, 2)
	if err != nil {
		t.Fatalf("Solve: unexpected error %v", err)
	}
	if math.Abs(x-math.Sqrt2) > 1e-6 {
		t.Errorf("root: got %v, want %v", x, math.Sqrt2)
	}
	if math.Abs(f(x)) > 1e-8 {
		t.Errorf("residual at root: %v", f(x))
	}
}

func TestRootSolver_LastEvaluationIsSolution(t *testing.T) {
	// side effects of f must reflect the returned x
	var lastX float64
	f := func(x float64) float64 {
		lastX = x
		return math.Cos(x) - x
	}
	x, err := RootSolver{}.Solve(f, 0, 1)
	if err != nil {
		t.Fatalf("Solve: unexpected error %v", err)
	}
	if x != lastX {
		t.Errorf("returned x=%v but last evaluation was at %v", x, lastX)
	}
}

func TestRootSolver_NoSignChange(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }
	_, err := RootSolver{}.Solve(f, -1, 1)
	if !errors.Is(err, ErrNoSignChange) {
		t.Errorf("got %v, want ErrNoSignChange", err)
	}
}

func TestRootSolver_IterationBudget(t *testing.T) {
	f := func(x float64) float64 { return math.Pow(x, 9) - 0.5 }
	_, err := RootSolver{MaxIter: 2, YTol: 1e-15}.Solve(f, 0, 1)
	if !errors.Is(err, ErrMaxIterations) {
		t.Errorf("got %v, want ErrMaxIterations", err)
	}
}

func TestRootSolver_RootAtBracketEnd(t *testing.T) {
	f := func(x float64) float64 { return x }
	x, err := RootSolver{}.Solve(f, 0, 1)
	if err != nil {
		t.Fatalf("Solve: unexpected error %v", err)
	}
	if x != 0 {
		t.Errorf("got %v, want 0", x)
	}
}
