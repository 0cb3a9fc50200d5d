package sampler

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// logOddsMax caps the inclusion log-odds before exponentiation. Beyond this
// the posterior odds overflow float64, so the indicator is set to 1
// deterministically; the clamp trades a one-sided bias toward inclusion for
// numerical stability. The threshold is a policy constant.
const logOddsMax = 300

// drawIndicator draws a spike-and-slab inclusion indicator from its full
// conditional. The log-odds combines the active/inactive posterior means and
// variances from the coefficient's two candidate full conditionals, their
// prior variances, and the current prior inclusion probability.
func (g *Gibbs) drawIndicator(mean0, var0, mean1, var1, prior0, prior1, pi float64) int {
	logOdds := mean1*mean1/(2*var1) - mean0*mean0/(2*var0) +
		0.5*math.Log(var1/prior1) - 0.5*math.Log(var0/prior0) +
		math.Log(pi/(1.0-pi))

	if logOdds >= logOddsMax {
		return 1
	}

	odds := math.Exp(logOdds)
	b := distuv.Bernoulli{P: odds / (1.0 + odds), Src: g.Gen}
	if b.Rand() > 0 {
		return 1
	}
	return 0
}
