package flowsim

import "math"

// NewtonResult is returned by newtonSolve whether or not it converged, so
// callers can log a warning and fall back to the best guess rather than
// propagating a bare error.
type NewtonResult struct {
	X         float64
	Converged bool
	Iterations int
}

// BestGuess is the x value to use even when the solve failed to converge.
func (r NewtonResult) BestGuess() float64 { return r.X }

// newtonSolve finds x such that objective(x) == 0, starting from x0, via
// Newton-Raphson with the given derivative. Gives up after maxIter
// iterations without reaching the given absolute tolerance.
func newtonSolve(x0, tolerance float64, maxIter int, objective, derivative func(float64) float64) NewtonResult {
	x := x0
	i := 0
	for ; i < maxIter; i++ {
		fx := objective(x)
		if math.Abs(fx) <= tolerance {
			return NewtonResult{X: x, Converged: true, Iterations: i}
		}
		dfx := derivative(x)
		if dfx == 0 {
			break
		}
		x -= fx / dfx
	}
	return NewtonResult{X: x, Converged: false, Iterations: i}
}
