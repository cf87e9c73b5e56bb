package flowsim

import "gonum.org/v1/gonum/mat"

// Derivative is anything that can evaluate dy/dt at (t, y).
type Derivative interface {
	Eval(t float64, y *mat.VecDense) *mat.VecDense
}

// RK4Step advances y by one classic fourth-order Runge-Kutta step of size
// dt, returning the new state. The four stage evaluations are where nearly
// all of a tick's cost lives, since each one runs a full junction
// equalisation pass over the net.
func RK4Step(d Derivative, t, dt float64, y *mat.VecDense) *mat.VecDense {
	n := y.Len()

	k1 := d.Eval(t, y)

	y2 := mat.NewVecDense(n, nil)
	y2.AddScaledVec(y, dt/2, k1)
	k2 := d.Eval(t+dt/2, y2)

	y3 := mat.NewVecDense(n, nil)
	y3.AddScaledVec(y, dt/2, k2)
	k3 := d.Eval(t+dt/2, y3)

	y4 := mat.NewVecDense(n, nil)
	y4.AddScaledVec(y, dt, k3)
	k4 := d.Eval(t+dt, y4)

	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		weighted := k1.AtVec(i) + 2*k2.AtVec(i) + 2*k3.AtVec(i) + k4.AtVec(i)
		out.SetVec(i, y.AtVec(i)+dt/6*weighted)
	}
	return out
}

// Integrator selects among the RK4 family. Ralston and RK3/8 are kept as
// alternates for a caller that wants a different stability/cost tradeoff;
// RK4 is what the step driver uses by default.
type Integrator int

const (
	IntegratorRK4 Integrator = iota
	IntegratorRK38
	IntegratorRalston
)

// Step dispatches to the selected integrator's Butcher tableau.
func Step(integrator Integrator, d Derivative, t, dt float64, y *mat.VecDense) *mat.VecDense {
	switch integrator {
	case IntegratorRK38:
		return rk38Step(d, t, dt, y)
	case IntegratorRalston:
		return ralstonStep(d, t, dt, y)
	default:
		return RK4Step(d, t, dt, y)
	}
}

func rk38Step(d Derivative, t, dt float64, y *mat.VecDense) *mat.VecDense {
	n := y.Len()

	k1 := d.Eval(t, y)

	y2 := mat.NewVecDense(n, nil)
	y2.AddScaledVec(y, dt/3, k1)
	k2 := d.Eval(t+dt/3, y2)

	y3 := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		y3.SetVec(i, y.AtVec(i)+dt*(-k1.AtVec(i)/3+k2.AtVec(i)))
	}
	k3 := d.Eval(t+2*dt/3, y3)

	y4 := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		y4.SetVec(i, y.AtVec(i)+dt*(k1.AtVec(i)-k2.AtVec(i)+k3.AtVec(i)))
	}
	k4 := d.Eval(t+dt, y4)

	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		weighted := k1.AtVec(i) + 3*k2.AtVec(i) + 3*k3.AtVec(i) + k4.AtVec(i)
		out.SetVec(i, y.AtVec(i)+dt/8*weighted)
	}
	return out
}

func ralstonStep(d Derivative, t, dt float64, y *mat.VecDense) *mat.VecDense {
	n := y.Len()

	k1 := d.Eval(t, y)

	y2 := mat.NewVecDense(n, nil)
	y2.AddScaledVec(y, 2*dt/3, k1)
	k2 := d.Eval(t+2*dt/3, y2)

	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		weighted := k1.AtVec(i)/4 + 3*k2.AtVec(i)/4
		out.SetVec(i, y.AtVec(i)+dt*weighted)
	}
	return out
}
