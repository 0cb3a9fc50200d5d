package model

import "gonum.org/v1/gonum/floats"

// Recompute rebuilds all three residual caches by direct evaluation of their
// defining formulas. It is called once, at the first iteration, as an
// initialization safeguard; all later maintenance is incremental via
// ApplyDelta.
func (m *Model) Recompute() {
	copy(m.Res1, m.Y)
	floats.AddScaled(m.Res1, -m.BetaA, m.A)
	for j := 0; j < m.Q; j++ {
		floats.AddScaled(m.Res1, -m.BetaM[j], m.MCol[j])
	}
	for c := 0; c < m.W1; c++ {
		floats.AddScaled(m.Res1, -m.BetaC[c], m.C1Col[c])
	}

	for j := 0; j < m.Q; j++ {
		copy(m.Res2C[j], m.MCol[j])
		for c := 0; c < m.W2; c++ {
			floats.AddScaled(m.Res2C[j], -m.AlphaC[c][j], m.C2Col[c])
		}

		copy(m.Res2[j], m.Res2C[j])
		floats.AddScaled(m.Res2[j], -m.AlphaA[j], m.A)
	}
}

// ApplyDelta folds a single coefficient change into a residual vector in
// place: res += (oldVal - newVal) * col. The caller must invoke it with the
// regressor column matching the coefficient, immediately after the write.
func ApplyDelta(res, col []float64, oldVal, newVal float64) {
	floats.AddScaled(res, oldVal-newVal, col)
}
