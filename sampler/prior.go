package sampler

import "math"

// walkStep is the half-width of the uniform log-scale proposal window for the
// adaptive inclusion-probability walk.
const walkStep = 0.01

// updateInclusionPriors proposes new values for both prior
// inclusion-probability vectors via a multiplicative log-scale random walk
// and accepts or rejects the pair jointly with a single Metropolis test on
// the Bernoulli likelihood of the current indicators.
func (g *Gibbs) updateInclusionPriors() {
	m := g.Mod
	q := m.Q

	propM := make([]float64, q)
	propA := make([]float64, q)
	for j := 0; j < q; j++ {
		propM[j] = reflectStep(m.PiM[j]*math.Exp(g.uniform(-walkStep, walkStep)), q)
	}
	for j := 0; j < q; j++ {
		propA[j] = reflectStep(m.PiA[j]*math.Exp(g.uniform(-walkStep, walkStep)), q)
	}

	logRatio := bernLogPost(propA, m.R3) - bernLogPost(m.PiA, m.R3) +
		bernLogPost(propM, m.R1) - bernLogPost(m.PiM, m.R1)

	if metropolisAccept(logRatio, g.uniform(0, 1)) {
		copy(m.PiM, propM)
		copy(m.PiA, propA)
	}
}

// reflectStep folds a proposed inclusion probability back toward range:
// values past 1 reflect to their reciprocal, values under 1/q rescale to
// 1/(q^2 * p).
func reflectStep(p float64, q int) float64 {
	p = math.Abs(p)
	if p > 1.0 {
		p = 1.0 / p
	}
	if p < 1.0/float64(q) {
		p = 1.0 / (float64(q) * float64(q) * p)
	}
	return p
}

// bernLogPost is the Bernoulli log-likelihood of the indicators under the
// given inclusion probabilities.
func bernLogPost(pi []float64, r []int) float64 {
	var lp float64
	for j, p := range pi {
		if r[j] == 1 {
			lp += math.Log(p)
		} else {
			lp += math.Log(1.0 - p)
		}
	}
	return lp
}

// metropolisAccept is the accept test: accept iff logRatio > log(u). A NaN
// ratio (from an out-of-range proposal) compares false and rejects.
func metropolisAccept(logRatio, u float64) bool {
	return logRatio > math.Log(u)
}
