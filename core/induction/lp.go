package induction

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// roleSelection is the solver output for the eligible fleet: which of the
// candidates run in service and which stand by.
type roleSelection struct {
	service []bool
	standby []bool
}

// solveRoleLP partitions eligible trains into service and standby seats by
// maximizing readiness-weighted seat value. Variables are, per candidate, a
// service share and a standby share: x_s + x_b <= 1, sum(x_s) = required,
// sum(x_b) = standby. The constraint matrix is a transportation polytope, so
// simplex vertices are integral; shares are rounded defensively anyway.
func solveRoleLP(scores []float64, required, standby int) (roleSelection, error) {
	n := len(scores)
	if n == 0 {
		return roleSelection{}, fmt.Errorf("no eligible trains")
	}
	if required+standby > n {
		return roleSelection{}, fmt.Errorf("headcounts %d+%d exceed eligible fleet %d", required, standby, n)
	}

	// Minimize the negated seat value: service seats are worth twice standby.
	c := make([]float64, 2*n)
	for i, s := range scores {
		c[i] = -s * 100
		c[n+i] = -s * 50
	}

	// One seat per train, plus nonnegativity in general form.
	g := mat.NewDense(3*n, 2*n, nil)
	h := make([]float64, 3*n)
	for i := 0; i < n; i++ {
		g.Set(i, i, 1)
		g.Set(i, n+i, 1)
		h[i] = 1
		g.Set(n+i, i, -1)
		g.Set(2*n+i, n+i, -1)
	}

	a := mat.NewDense(2, 2*n, nil)
	for i := 0; i < n; i++ {
		a.Set(0, i, 1)
		a.Set(1, n+i, 1)
	}
	b := []float64{float64(required), float64(standby)}

	cStd, aStd, bStd := lp.Convert(c, g, h, a, b)
	_, sol, err := lp.Simplex(cStd, aStd, bStd, 1e-7, nil)
	if err != nil {
		return roleSelection{}, err
	}

	sel := roleSelection{service: make([]bool, n), standby: make([]bool, n)}
	for i := 0; i < n; i++ {
		sel.service[i] = sol[i] > 0.5
		sel.standby[i] = sol[n+i] > 0.5
	}
	return sel, nil
}

// lpSolve points to the role solver. Tests override it to simulate solver
// failures.
var lpSolve = solveRoleLP
