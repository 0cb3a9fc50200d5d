package sampler

import "github.com/dstrother/mediate/model"

// sampleNoise redraws the two residual noise variances from their
// inverse-gamma full conditionals. It runs at the top of every sweep, before
// any coefficient moves.
func (g *Gibbs) sampleNoise() {
	m := g.Mod
	hp := m.Hyper

	var sse float64
	for _, r := range m.Res1 {
		sse += r * r
	}
	var ssg float64
	for j := 0; j < m.Q; j++ {
		for _, r := range m.Res2[j] {
			ssg += r * r
		}
	}

	m.SigmaE = model.InvGamma(hp.Ke+float64(m.N)/2.0, hp.Le+sse/2.0, g.Gen)
	m.SigmaG = model.InvGamma(hp.Kg+float64(m.Q)*float64(m.N)/2.0, hp.Lg+ssg/2.0, g.Gen)
}

// sampleComponentVariances redraws the five component-specific variances
// after the coefficient/indicator sweep. Shapes count the indicators on each
// side of the mixture; rates sum the squared coefficients on that side.
func (g *Gibbs) sampleComponentVariances() {
	m := g.Mod
	hp := m.Hyper

	var n1, ssB1, n3, ssA1 float64
	for j := 0; j < m.Q; j++ {
		if m.R1[j] == 1 {
			n1++
			ssB1 += m.BetaM[j] * m.BetaM[j]
		}
		if m.R3[j] == 1 {
			n3++
			ssA1 += m.AlphaA[j] * m.AlphaA[j]
		}
	}

	m.SigmaM1 = model.InvGamma(hp.Km1+n1/2.0, hp.Lm1+ssB1/2.0, g.Gen)
	m.SigmaA = model.InvGamma(hp.Ka+0.5, hp.La+m.BetaA*m.BetaA/2.0, g.Gen)
	m.SigmaMa1 = model.InvGamma(hp.Kma1+n3/2.0, hp.Lma1+ssA1/2.0, g.Gen)

	var n0, ssB0, n30, ssA0 float64
	for j := 0; j < m.Q; j++ {
		if m.R1[j] == 0 {
			n0++
			ssB0 += m.BetaM[j] * m.BetaM[j]
		}
		if m.R3[j] == 0 {
			n30++
			ssA0 += m.AlphaA[j] * m.AlphaA[j]
		}
	}

	m.SigmaM0 = model.InvGamma(hp.Km0+n0/2.0, hp.Lm0+ssB0/2.0, g.Gen)
	m.SigmaMa0 = model.InvGamma(hp.Kma0+n30/2.0, hp.Lma0+ssA0/2.0, g.Gen)
}
