// Package sampler implements the Gibbs/Metropolis sweep for the sparse
// mediation model: conjugate coefficient draws, spike-and-slab indicator
// updates, inverse-gamma variance updates, and the adaptive Metropolis step
// on the inclusion probabilities.
package sampler

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dstrother/mediate/model"
	"github.com/dstrother/mediate/rand"
)

// Thinning is the retention stride for the result sink: past burn-in, every
// Thinning-th iteration appends one row.
const Thinning = 10

// Gibbs runs the per-iteration update for a single chain. The chain is one
// Markov sequence: calls to Iteration must be sequential, and every random
// draw comes from the one Generator in a fixed order, so an identical seed
// reproduces the identical trajectory.
type Gibbs struct {
	Mod *model.Model
	Gen *rand.Generator

	// Sink receives one row per retained iteration. Append failures never
	// abort the chain; they are counted in SinkErrs.
	Sink     Sink
	SinkErrs int
}

// NewGibbs creates a sampler over the given model state. A nil sink discards
// all retained rows.
func NewGibbs(m *model.Model, gen *rand.Generator, sink Sink) (*Gibbs, error) {
	if m == nil {
		return nil, errors.New("No model supplied")
	}
	if gen == nil {
		return nil, errors.New("No random generator supplied")
	}
	if sink == nil {
		sink = Discard{}
	}

	g := &Gibbs{
		Mod:  m,
		Gen:  gen,
		Sink: sink,
	}
	return g, nil
}

// Iteration performs one full sweep: noise variances, the per-mediator
// coefficient/indicator/covariate updates, the outcome-stage covariates, the
// exposure effect, the component variances, and the adaptive prior step. On
// iteration 0 the residual caches are rebuilt from scratch first; afterwards
// they are maintained incrementally. If it is past burnIn and on a thinning
// boundary, one row is appended to the sink.
func (g *Gibbs) Iteration(burnIn, it int) {
	m := g.Mod

	if it == 0 {
		m.Recompute()
	}

	g.sampleNoise()

	for j := 0; j < m.Q; j++ {
		g.sampleMediator(j)
	}

	g.sampleOutcomeCovariates()
	g.sampleExposure()
	g.sampleComponentVariances()
	g.updateInclusionPriors()

	if it > burnIn && it%Thinning == 0 {
		if err := g.Sink.Append(m.BetaM, m.PiM, m.AlphaA, m.PiA, m.BetaA); err != nil {
			g.SinkErrs++
		}
	}
}

// sampleMediator updates mediator j: its outcome effect BetaM[j], its
// exposure association AlphaA[j], both inclusion indicators, and the
// mediator-stage covariate coefficients for its column.
func (g *Gibbs) sampleMediator(j int) {
	m := g.Mod
	mcol := m.MCol[j]

	// Leave-one-out dot products. Res1 has BetaM[j]'s contribution added
	// back entrywise; Res2C already excludes AlphaA by construction.
	var dotM, dotA float64
	for i := 0; i < m.N; i++ {
		dotM += mcol[i] * (m.Res1[i] + mcol[i]*m.BetaM[j])
		dotA += m.A[i] * m.Res2C[j][i]
	}

	varM0 := 1.0 / (1.0/m.SigmaM0 + m.M2Norm[j]/m.SigmaE)
	varM1 := 1.0 / (1.0/m.SigmaM1 + m.M2Norm[j]/m.SigmaE)
	meanM0 := dotM * varM0 / m.SigmaE
	meanM1 := dotM * varM1 / m.SigmaE

	varA0 := 1.0 / (1.0/m.SigmaMa0 + m.A2Norm/m.SigmaG)
	varA1 := 1.0 / (1.0/m.SigmaMa1 + m.A2Norm/m.SigmaG)
	meanA0 := dotA * varA0 / m.SigmaG
	meanA1 := dotA * varA1 / m.SigmaG

	// Both mixture components are drawn every sweep so the unselected chain
	// keeps mixing; the current indicator picks which draw is kept.
	old := m.BetaM[j]
	active := g.normal(meanM1, math.Sqrt(varM1))
	inactive := g.normal(meanM0, math.Sqrt(varM0))
	if m.R1[j] == 1 {
		m.BetaM[j] = active
	} else {
		m.BetaM[j] = inactive
	}
	model.ApplyDelta(m.Res1, mcol, old, m.BetaM[j])

	old = m.AlphaA[j]
	active = g.normal(meanA1, math.Sqrt(varA1))
	inactive = g.normal(meanA0, math.Sqrt(varA0))
	if m.R3[j] == 1 {
		m.AlphaA[j] = active
	} else {
		m.AlphaA[j] = inactive
	}
	model.ApplyDelta(m.Res2[j], m.A, old, m.AlphaA[j])

	m.R1[j] = g.drawIndicator(meanM0, varM0, meanM1, varM1, m.SigmaM0, m.SigmaM1, m.PiM[j])
	m.R3[j] = g.drawIndicator(meanA0, varA0, meanA1, varA1, m.SigmaMa0, m.SigmaMa1, m.PiA[j])

	g.sampleMediatorCovariates(j)
}

// sampleMediatorCovariates draws the w2 covariate coefficients for mediator
// j's regression, adjusting both mediator-stage residual caches after each
// draw.
func (g *Gibbs) sampleMediatorCovariates(j int) {
	m := g.Mod

	for c := 0; c < m.W2; c++ {
		col := m.C2Col[c]
		old := m.AlphaC[c][j]

		var dot float64
		for i := 0; i < m.N; i++ {
			dot += col[i] * (m.Res2[j][i] + old*col[i])
		}
		mean := dot / m.C22Norm[c]

		m.AlphaC[c][j] = g.normal(mean, math.Sqrt(m.SigmaG/m.C22Norm[c]))
		model.ApplyDelta(m.Res2[j], col, old, m.AlphaC[c][j])
		model.ApplyDelta(m.Res2C[j], col, old, m.AlphaC[c][j])
	}
}

// sampleOutcomeCovariates draws the w1 outcome-stage covariate coefficients.
func (g *Gibbs) sampleOutcomeCovariates() {
	m := g.Mod

	for c := 0; c < m.W1; c++ {
		col := m.C1Col[c]
		old := m.BetaC[c]

		var dot float64
		for i := 0; i < m.N; i++ {
			dot += col[i] * (m.Res1[i] + old*col[i])
		}
		mean := dot / m.C12Norm[c]

		m.BetaC[c] = g.normal(mean, math.Sqrt(m.SigmaE/m.C12Norm[c]))
		model.ApplyDelta(m.Res1, col, old, m.BetaC[c])
	}
}

// sampleExposure draws the direct exposure effect BetaA.
func (g *Gibbs) sampleExposure() {
	m := g.Mod

	varA := 1.0 / (1.0/m.SigmaA + m.A2Norm/m.SigmaE)
	old := m.BetaA

	var dot float64
	for i := 0; i < m.N; i++ {
		dot += m.A[i] * (m.Res1[i] + old*m.A[i])
	}
	mean := dot * varA / m.SigmaE

	m.BetaA = g.normal(mean, math.Sqrt(varA))
	model.ApplyDelta(m.Res1, m.A, old, m.BetaA)
}

func (g *Gibbs) normal(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: g.Gen}.Rand()
}

func (g *Gibbs) uniform(min, max float64) float64 {
	return distuv.Uniform{Min: min, Max: max, Src: g.Gen}.Rand()
}
