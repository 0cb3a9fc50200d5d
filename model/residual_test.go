package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dstrother/mediate/rand"
)

func newResidualModel(t *testing.T, n, q, w1, w2 int) *Model {
	gen, err := rand.NewGenerator(11)
	assert.NoError(t, err)

	d := testData(n, q, w1, w2)
	betaM, alphaA, piM, piA := sharedParams(q)

	m, err := New(d, betaM, alphaA, piM, piA, DefaultHyper(), gen)
	assert.NoError(t, err)
	return m
}

func TestRecomputeDefinition(t *testing.T) {
	assert := assert.New(t)

	n, q, w1, w2 := 8, 2, 1, 2
	m := newResidualModel(t, n, q, w1, w2)

	// Non-trivial coefficients everywhere
	m.BetaA = 0.3
	m.BetaM[0], m.BetaM[1] = 1.1, -0.4
	m.AlphaA[0], m.AlphaA[1] = 0.7, 0.2
	m.BetaC[0] = -0.6
	m.AlphaC[0][0], m.AlphaC[0][1] = 0.15, -0.25
	m.AlphaC[1][0], m.AlphaC[1][1] = -0.05, 0.45

	m.Recompute()

	for i := 0; i < n; i++ {
		want := m.Y[i] - m.BetaA*m.A[i] - m.BetaC[0]*m.C1Col[0][i]
		for j := 0; j < q; j++ {
			want -= m.BetaM[j] * m.MCol[j][i]
		}
		assert.InDelta(want, m.Res1[i], 1e-12)

		for j := 0; j < q; j++ {
			covPart := 0.0
			for c := 0; c < w2; c++ {
				covPart += m.AlphaC[c][j] * m.C2Col[c][i]
			}
			assert.InDelta(m.MCol[j][i]-covPart, m.Res2C[j][i], 1e-12)
			assert.InDelta(m.MCol[j][i]-m.AlphaA[j]*m.A[i]-covPart, m.Res2[j][i], 1e-12)
		}
	}
}

func TestApplyDeltaAgreesWithRecompute(t *testing.T) {
	assert := assert.New(t)

	n, q, w2 := 10, 3, 2
	m := newResidualModel(t, n, q, 2, w2)
	m.Recompute()

	// Apply a series of coefficient changes with incremental updates
	changes := []struct {
		set func(v float64) (old float64)
		col []float64
	}{
		{func(v float64) float64 { old := m.BetaM[1]; m.BetaM[1] = v; return old }, m.MCol[1]},
		{func(v float64) float64 { old := m.BetaA; m.BetaA = v; return old }, m.A},
		{func(v float64) float64 { old := m.BetaC[0]; m.BetaC[0] = v; return old }, m.C1Col[0]},
	}
	for k, ch := range changes {
		v := 0.1 * float64(k+1)
		old := ch.set(v)
		ApplyDelta(m.Res1, ch.col, old, v)
	}

	// Mediator-stage change touches both caches
	old := m.AlphaC[1][2]
	m.AlphaC[1][2] = -0.33
	ApplyDelta(m.Res2[2], m.C2Col[1], old, -0.33)
	ApplyDelta(m.Res2C[2], m.C2Col[1], old, -0.33)

	old = m.AlphaA[0]
	m.AlphaA[0] = 0.91
	ApplyDelta(m.Res2[0], m.A, old, 0.91)

	// Snapshot the incrementally maintained caches, then rebuild from scratch
	res1 := append([]float64(nil), m.Res1...)
	res2 := make([][]float64, q)
	res2c := make([][]float64, q)
	for j := 0; j < q; j++ {
		res2[j] = append([]float64(nil), m.Res2[j]...)
		res2c[j] = append([]float64(nil), m.Res2C[j]...)
	}

	m.Recompute()

	for i := 0; i < n; i++ {
		assert.InDelta(m.Res1[i], res1[i], 1e-10)
		for j := 0; j < q; j++ {
			assert.InDelta(m.Res2[j][i], res2[j][i], 1e-10)
			assert.InDelta(m.Res2C[j][i], res2c[j][i], 1e-10)
		}
	}
}
