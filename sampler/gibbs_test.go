package sampler

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dstrother/mediate/model"
	"github.com/dstrother/mediate/rand"
)

// captureSink records copies of every appended row.
type captureSink struct {
	betaM [][]float64
	betaA []float64
}

func (c *captureSink) Append(betaM, piM, alphaA, piA []float64, betaA float64) error {
	c.betaM = append(c.betaM, append([]float64(nil), betaM...))
	c.betaA = append(c.betaA, betaA)
	return nil
}

// failSink always fails.
type failSink struct{}

func (failSink) Append(_, _, _, _ []float64, _ float64) error {
	return errors.New("sink is broken")
}

func newTestGibbs(t *testing.T, seed int64, n, q, qActive, w1, w2 int, sink Sink) *Gibbs {
	dataGen, err := rand.NewGenerator(seed)
	assert.NoError(t, err)
	syn := model.GenerateSynthetic(dataGen, n, q, qActive, w1, w2)

	betaM := make([]float64, q)
	alphaA := make([]float64, q)
	piM := make([]float64, q)
	piA := make([]float64, q)
	for j := 0; j < q; j++ {
		piM[j] = 0.5
		piA[j] = 0.5
	}

	chainGen, err := rand.NewGenerator(seed + 1)
	assert.NoError(t, err)

	mod, err := model.New(syn.Data, betaM, alphaA, piM, piA, model.DefaultHyper(), chainGen)
	assert.NoError(t, err)

	g, err := NewGibbs(mod, chainGen, sink)
	assert.NoError(t, err)
	return g
}

func TestNewGibbsChecks(t *testing.T) {
	assert := assert.New(t)

	gen, err := rand.NewGenerator(1)
	assert.NoError(err)

	_, err = NewGibbs(nil, gen, nil)
	assert.Error(err)

	g := newTestGibbs(t, 5, 20, 2, 1, 0, 0, nil)
	assert.NotNil(g.Sink) // nil sink becomes Discard

	_, err = NewGibbs(g.Mod, nil, nil)
	assert.Error(err)
}

func TestIterationInvariants(t *testing.T) {
	assert := assert.New(t)

	n, q := 60, 4
	g := newTestGibbs(t, 17, n, q, 2, 2, 2, nil)
	m := g.Mod

	piFloor := 1.0 / float64(q*q)

	for it := 0; it < 300; it++ {
		g.Iteration(100, it)

		for j := 0; j < q; j++ {
			assert.True(m.R1[j] == 0 || m.R1[j] == 1)
			assert.True(m.R3[j] == 0 || m.R3[j] == 1)
			assert.True(m.PiM[j] > piFloor && m.PiM[j] <= 1.0+0.02,
				"pi_m[%d]=%v out of range at iter %d", j, m.PiM[j], it)
			assert.True(m.PiA[j] > piFloor && m.PiA[j] <= 1.0+0.02,
				"pi_a[%d]=%v out of range at iter %d", j, m.PiA[j], it)
		}

		for _, s := range []float64{m.SigmaM0, m.SigmaM1, m.SigmaA, m.SigmaMa0, m.SigmaMa1, m.SigmaG, m.SigmaE} {
			assert.True(s > 0, "Variance component %v not positive at iter %d", s, it)
		}

		if it%50 == 49 {
			assertResidualsConsistent(t, m)
		}
	}
}

// assertResidualsConsistent checks that the incrementally maintained caches
// match a from-scratch recomputation.
func assertResidualsConsistent(t *testing.T, m *model.Model) {
	res1 := append([]float64(nil), m.Res1...)
	res2 := make([][]float64, m.Q)
	res2c := make([][]float64, m.Q)
	for j := 0; j < m.Q; j++ {
		res2[j] = append([]float64(nil), m.Res2[j]...)
		res2c[j] = append([]float64(nil), m.Res2C[j]...)
	}

	m.Recompute()

	for i := 0; i < m.N; i++ {
		assert.InDelta(t, m.Res1[i], res1[i], 1e-6)
		for j := 0; j < m.Q; j++ {
			assert.InDelta(t, m.Res2[j][i], res2[j][i], 1e-6)
			assert.InDelta(t, m.Res2C[j][i], res2c[j][i], 1e-6)
		}
	}
}

func TestReproducibility(t *testing.T) {
	assert := assert.New(t)

	run := func() []float64 {
		g := newTestGibbs(t, 1234, 40, 3, 2, 1, 1, nil)
		traj := make([]float64, 0, 200)
		for it := 0; it < 100; it++ {
			g.Iteration(50, it)
			traj = append(traj, g.Mod.BetaA, g.Mod.BetaM[0])
		}
		return traj
	}

	t1 := run()
	t2 := run()
	assert.Equal(t1, t2)
}

func TestConjugacyRecovery(t *testing.T) {
	assert := assert.New(t)

	// Data from a known mediation truth with q=1 and no covariates
	const (
		n          = 500
		trueBetaA  = 0.5
		trueBetaM  = 1.0
		trueAlphaA = 0.8
	)

	dataGen, err := rand.NewGenerator(4242)
	assert.NoError(err)
	noise := distuv.Normal{Mu: 0, Sigma: 1, Src: dataGen}

	y := mat.NewVecDense(n, nil)
	a := mat.NewVecDense(n, nil)
	mm := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		av := noise.Rand()
		mv := trueAlphaA*av + noise.Rand()
		a.SetVec(i, av)
		mm.Set(i, 0, mv)
		y.SetVec(i, trueBetaA*av+trueBetaM*mv+noise.Rand())
	}

	betaM := make([]float64, 1)
	alphaA := make([]float64, 1)
	piM := []float64{0.5}
	piA := []float64{0.5}

	chainGen, err := rand.NewGenerator(77)
	assert.NoError(err)
	mod, err := model.New(
		model.Data{Y: y, A: a, M: mm},
		betaM, alphaA, piM, piA, model.DefaultHyper(), chainGen,
	)
	assert.NoError(err)

	rows := &captureSink{}
	g, err := NewGibbs(mod, chainGen, rows)
	assert.NoError(err)

	const (
		niter = 3000
		burn  = 500
	)
	for it := 0; it < niter; it++ {
		g.Iteration(burn, it)
	}

	samples := make([]float64, 0, len(rows.betaM))
	for _, row := range rows.betaM {
		samples = append(samples, row[0])
	}
	assert.True(len(samples) > 200)

	mean, sd := stat.MeanStdDev(samples, nil)
	assert.InDelta(trueBetaM, mean, 3*sd,
		"Posterior mean %v too far from truth %v (sd %v)", mean, trueBetaM, sd)
}

func TestThinningContract(t *testing.T) {
	assert := assert.New(t)

	rows := &captureSink{}
	g := newTestGibbs(t, 3, 20, 2, 1, 0, 0, rows)

	const (
		niter = 1000
		burn  = 200
	)
	for it := 0; it < niter; it++ {
		g.Iteration(burn, it)
	}

	// Retained iterations are 210, 220, ..., 990
	assert.Equal(79, len(rows.betaA))
	assert.Equal(0, g.SinkErrs)
}

func TestSinkFailureDoesNotAbort(t *testing.T) {
	assert := assert.New(t)

	g := newTestGibbs(t, 9, 20, 2, 1, 0, 0, failSink{})

	for it := 0; it < 40; it++ {
		g.Iteration(10, it)
	}

	// Appends were attempted at 20 and 30 and failed; the chain kept going
	assert.Equal(2, g.SinkErrs)
	assert.True(g.Mod.SigmaE > 0)
}
