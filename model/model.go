// Package model holds the state of a two-stage linear mediation model with
// spike-and-slab selection: the input data, the current parameter values, the
// fixed hyperparameters, and the residual caches the sampler keeps in sync.
package model

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dstrother/mediate/rand"
)

// Data is the caller-supplied input, read-only to the sampler. C1 and C2 may
// be nil when the corresponding stage has no covariates.
type Data struct {
	Y  mat.Vector // n outcome values
	A  mat.Vector // n exposure values
	M  mat.Matrix // n x q candidate mediators
	C1 mat.Matrix // n x w1 outcome-stage covariates
	C2 mat.Matrix // n x w2 mediator-stage covariates
}

// Hyper collects the inverse-gamma prior shapes (K*) and rates (L*) for the
// seven variance components.
type Hyper struct {
	Km0, Lm0   float64 // inactive mediator-effect variance
	Km1, Lm1   float64 // active mediator-effect variance
	Ka, La     float64 // exposure-effect variance
	Kma0, Lma0 float64 // inactive exposure-mediator association variance
	Kma1, Lma1 float64 // active exposure-mediator association variance
	Ke, Le     float64 // outcome-stage noise variance
	Kg, Lg     float64 // mediator-stage noise variance
}

// DefaultHyper returns the standard weakly-informative prior settings.
func DefaultHyper() Hyper {
	return Hyper{
		Km0: 2.0, Lm0: 0.1,
		Km1: 2.0, Lm1: 0.5,
		Ka: 2.0, La: 1.0,
		Kma0: 2.0, Lma0: 1.0,
		Kma1: 2.0, Lma1: 2.0,
		Ke: 2.0, Le: 1.0,
		Kg: 2.0, Lg: 1.0,
	}
}

// Model is the full sampler state. BetaM, AlphaA, PiM, and PiA alias
// caller-owned storage: the sampler is their single writer and the caller
// reads the final values after the run. Everything else is owned here.
//
// Res1, Res2, and Res2C are the residual caches defined in residual.go; they
// must be adjusted via ApplyDelta in lock-step with every coefficient write.
type Model struct {
	N, Q, W1, W2 int

	// Column copies of the immutable inputs.
	Y, A  []float64
	MCol  [][]float64 // q columns of length n
	C1Col [][]float64 // w1 columns of length n
	C2Col [][]float64 // w2 columns of length n

	// Shared with the caller.
	BetaM  []float64 // q mediator effects on the outcome
	AlphaA []float64 // q exposure effects on the mediators
	PiM    []float64 // q prior inclusion probabilities for BetaM
	PiA    []float64 // q prior inclusion probabilities for AlphaA

	// Owned parameters.
	BetaA  float64     // exposure effect on the outcome
	BetaC  []float64   // w1 outcome-stage covariate coefficients
	AlphaC [][]float64 // w2 x q mediator-stage covariate coefficients
	R1     []int       // inclusion indicators for BetaM, values in {0,1}
	R3     []int       // inclusion indicators for AlphaA, values in {0,1}

	// Variance components.
	SigmaM0, SigmaM1   float64
	SigmaA             float64
	SigmaMa0, SigmaMa1 float64
	SigmaG, SigmaE     float64

	Hyper Hyper

	// Residual caches.
	Res1  []float64   // Y - BetaA*A - M*BetaM - C1*BetaC
	Res2  [][]float64 // column j: M[:,j] - AlphaA[j]*A - C2*AlphaC[:,j]
	Res2C [][]float64 // column j: M[:,j] - C2*AlphaC[:,j]

	// Column sums of squares, computed once at construction.
	A2Norm  float64
	M2Norm  []float64
	C12Norm []float64
	C22Norm []float64
}

// New validates the inputs, copies the data columns, computes the squared-norm
// caches, and initializes the variance components with one draw each from
// their priors. The four slice arguments are retained (not copied) and are
// mutated during sampling.
func New(d Data, betaM, alphaA, piM, piA []float64, hp Hyper, gen *rand.Generator) (*Model, error) {
	if d.Y == nil || d.A == nil || d.M == nil {
		return nil, errors.New("Outcome, exposure, and mediator data are all required")
	}
	if gen == nil {
		return nil, errors.New("A random generator is required")
	}

	n := d.Y.Len()
	if n < 1 {
		return nil, errors.Errorf("Invalid observation count %d", n)
	}
	if d.A.Len() != n {
		return nil, errors.Errorf("Exposure length %d != outcome length %d", d.A.Len(), n)
	}

	mr, q := d.M.Dims()
	if mr != n {
		return nil, errors.Errorf("Mediator matrix has %d rows, expected %d", mr, n)
	}
	if q < 1 {
		return nil, errors.Errorf("Invalid mediator count %d", q)
	}

	w1 := 0
	if d.C1 != nil {
		r, w := d.C1.Dims()
		if r != n {
			return nil, errors.Errorf("Outcome covariate matrix has %d rows, expected %d", r, n)
		}
		w1 = w
	}
	w2 := 0
	if d.C2 != nil {
		r, w := d.C2.Dims()
		if r != n {
			return nil, errors.Errorf("Mediator covariate matrix has %d rows, expected %d", r, n)
		}
		w2 = w
	}

	for name, s := range map[string][]float64{
		"beta_m": betaM, "alpha_a": alphaA, "pi_m": piM, "pi_a": piA,
	} {
		if len(s) != q {
			return nil, errors.Errorf("Shared parameter %s has length %d, expected %d", name, len(s), q)
		}
	}

	m := &Model{
		N: n, Q: q, W1: w1, W2: w2,
		Y:      vecCopy(d.Y),
		A:      vecCopy(d.A),
		MCol:   colsCopy(d.M, n, q),
		BetaM:  betaM,
		AlphaA: alphaA,
		PiM:    piM,
		PiA:    piA,
		BetaC:  make([]float64, w1),
		R1:     make([]int, q),
		R3:     make([]int, q),
		Hyper:  hp,
		Res1:   make([]float64, n),
		M2Norm: make([]float64, q),
	}

	if w1 > 0 {
		m.C1Col = colsCopy(d.C1, n, w1)
		m.C12Norm = make([]float64, w1)
	}
	if w2 > 0 {
		m.C2Col = colsCopy(d.C2, n, w2)
		m.C22Norm = make([]float64, w2)
	}

	m.AlphaC = make([][]float64, w2)
	for c := 0; c < w2; c++ {
		m.AlphaC[c] = make([]float64, q)
	}

	m.Res2 = make([][]float64, q)
	m.Res2C = make([][]float64, q)
	for j := 0; j < q; j++ {
		m.Res2[j] = make([]float64, n)
		m.Res2C[j] = make([]float64, n)
	}

	m.A2Norm = floats.Dot(m.A, m.A)
	for j := 0; j < q; j++ {
		m.M2Norm[j] = floats.Dot(m.MCol[j], m.MCol[j])
	}
	for c := 0; c < w1; c++ {
		m.C12Norm[c] = floats.Dot(m.C1Col[c], m.C1Col[c])
	}
	for c := 0; c < w2; c++ {
		m.C22Norm[c] = floats.Dot(m.C2Col[c], m.C2Col[c])
	}

	// One prior draw per variance component, in a fixed order.
	m.SigmaM0 = InvGamma(hp.Km0, hp.Lm0, gen)
	m.SigmaM1 = InvGamma(hp.Km1, hp.Lm1, gen)
	m.SigmaA = InvGamma(hp.Ka, hp.La, gen)
	m.SigmaMa0 = InvGamma(hp.Kma0, hp.Lma0, gen)
	m.SigmaMa1 = InvGamma(hp.Kma1, hp.Lma1, gen)
	m.SigmaG = InvGamma(hp.Kg, hp.Lg, gen)
	m.SigmaE = InvGamma(hp.Ke, hp.Le, gen)

	return m, nil
}

// gammaTiny floors a Gamma draw before inversion. A draw can underflow to
// zero for small shapes, which would put a division by zero in every full
// conditional downstream; the floor keeps the inverted variance finite and
// strictly positive.
const gammaTiny = 1e-300

// InvGamma draws an inverse-gamma variate with the given shape and rate by
// inverting a Gamma draw.
func InvGamma(shape, rate float64, gen *rand.Generator) float64 {
	v := distuv.Gamma{Alpha: shape, Beta: rate, Src: gen}.Rand()
	if v < gammaTiny {
		v = gammaTiny
	}
	return 1.0 / v
}

func vecCopy(v mat.Vector) []float64 {
	dst := make([]float64, v.Len())
	for i := range dst {
		dst[i] = v.AtVec(i)
	}
	return dst
}

func colsCopy(a mat.Matrix, n, k int) [][]float64 {
	cols := make([][]float64, k)
	for j := 0; j < k; j++ {
		cols[j] = make([]float64, n)
		mat.Col(cols[j], j, a)
	}
	return cols
}
