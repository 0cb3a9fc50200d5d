package model

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dstrother/mediate/rand"
)

// Synthetic is a generated mediation dataset together with the generating
// parameter values, so callers (and tests) can check recovery.
type Synthetic struct {
	Data   Data
	BetaA  float64
	BetaM  []float64
	AlphaA []float64
}

// GenerateSynthetic builds a dataset of n observations and q candidate
// mediators where only the first qActive mediators carry a real effect:
//
//	M[:,j] = alpha_a[j]*A + noise
//	Y      = beta_a*A + M*beta_m + noise
//
// The exposure and both noise terms are standard normal. Covariate matrices
// (w1, w2 columns) are standard normal with zero generating coefficients, so
// they act as pure nuisance regressors.
func GenerateSynthetic(gen *rand.Generator, n, q, qActive, w1, w2 int) *Synthetic {
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: gen}
	effect := distuv.Normal{Mu: 0, Sigma: 2, Src: gen}

	s := &Synthetic{
		BetaA:  0.5,
		BetaM:  make([]float64, q),
		AlphaA: make([]float64, q),
	}
	for j := 0; j < qActive && j < q; j++ {
		s.BetaM[j] = effect.Rand()
		s.AlphaA[j] = norm.Rand()
	}

	a := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		a.SetVec(i, norm.Rand())
	}

	m := mat.NewDense(n, q, nil)
	for j := 0; j < q; j++ {
		for i := 0; i < n; i++ {
			m.Set(i, j, s.AlphaA[j]*a.AtVec(i)+norm.Rand())
		}
	}

	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v := s.BetaA*a.AtVec(i) + norm.Rand()
		for j := 0; j < q; j++ {
			v += s.BetaM[j] * m.At(i, j)
		}
		y.SetVec(i, v)
	}

	s.Data = Data{Y: y, A: a, M: m}
	if w1 > 0 {
		s.Data.C1 = randDense(norm, n, w1)
	}
	if w2 > 0 {
		s.Data.C2 = randDense(norm, n, w2)
	}

	return s
}

func randDense(d distuv.Normal, n, k int) *mat.Dense {
	out := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			out.Set(i, j, d.Rand())
		}
	}
	return out
}

// Standardize centers every column of a to mean zero and scales it to unit
// standard deviation, in place. Constant columns are left centered only.
func Standardize(a *mat.Dense) {
	n, k := a.Dims()
	col := make([]float64, n)
	for j := 0; j < k; j++ {
		mat.Col(col, j, a)
		mean, std := stat.MeanStdDev(col, nil)
		for i := 0; i < n; i++ {
			v := col[i] - mean
			if std > 0 {
				v /= std
			}
			a.Set(i, j, v)
		}
	}
}
