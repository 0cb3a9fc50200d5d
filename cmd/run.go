package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/dstrother/mediate/buffer"
	"github.com/dstrother/mediate/model"
	"github.com/dstrother/mediate/rand"
	"github.com/dstrother/mediate/sampler"
)

var nIter int
var burnIn int
var outFile string
var standardize bool
var monitorAddr string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the Gibbs sampler on a dataset read from --data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSampler()
	},
}

func init() {
	runCmd.Flags().IntVarP(&nIter, "iters", "i", 10000, "Total iteration count")
	runCmd.Flags().IntVarP(&burnIn, "burnin", "b", 1000, "Burn-in iteration count (discarded)")
	runCmd.Flags().StringVarP(&outFile, "out", "o", "", "Result file (default results_<q>.txt in the data dir)")
	runCmd.Flags().BoolVar(&standardize, "standardize", false, "Standardize Y, A, and M columns before sampling")
	runCmd.Flags().StringVar(&monitorAddr, "monitor", "", "Address for the HTTP progress monitor (e.g. :8000); empty disables")
}

func runSampler() error {
	gen, err := rand.NewGenerator(randomSeed)
	if err != nil {
		return err
	}

	d, err := loadData()
	if err != nil {
		return err
	}

	q := nMediators
	betaM := make([]float64, q)
	alphaA := make([]float64, q)
	piM := make([]float64, q)
	piA := make([]float64, q)
	for j := 0; j < q; j++ {
		piM[j] = 0.5
		piA[j] = 0.5
	}

	mod, err := model.New(d, betaM, alphaA, piM, piA, model.DefaultHyper(), gen)
	if err != nil {
		return errors.Wrap(err, "Could not construct model state")
	}

	resultPath := outFile
	if len(resultPath) < 1 {
		resultPath = filepath.Join(dataDir, sampler.ResultsFileName(q))
	}
	sink, err := sampler.NewFileSink(resultPath)
	if err != nil {
		return err
	}

	gibbs, err := sampler.NewGibbs(mod, gen, sink)
	if err != nil {
		return err
	}

	fmt.Printf("mediate run\n")
	fmt.Printf("Data:     %s (n=%d q=%d w1=%d w2=%d)\n", dataDir, nObs, q, mod.W1, mod.W2)
	fmt.Printf("Iters:    %d (burn-in %d, thinning %d)\n", nIter, burnIn, sampler.Thinning)
	fmt.Printf("Rnd Seed: %d\n", randomSeed)
	fmt.Printf("Results:  %s\n", resultPath)

	mon := &monitor{}
	if len(monitorAddr) > 0 {
		if err := mon.Start(monitorAddr); err != nil {
			return err
		}
		defer mon.Stop()
		mon.BurnIn.Set(int64(burnIn))
		mon.MaxIters.Set(int64(nIter))
		mon.Mediators.Set(int64(q))
	}

	win := buffer.NewCircularFloat(100)
	written := 0
	start := time.Now()

	for it := 0; it < nIter; it++ {
		prevErrs := gibbs.SinkErrs
		gibbs.Iteration(burnIn, it)
		win.Add(mod.BetaA)

		if it > burnIn && it%sampler.Thinning == 0 && gibbs.SinkErrs == prevErrs {
			written++
		}

		if mon.running() {
			mon.Iterations.Set(int64(it + 1))
			mon.SamplesWritten.Set(int64(written))
			mon.SinkErrs.Set(int64(gibbs.SinkErrs))
			mon.RunTime.Set(time.Since(start).Seconds())
			mon.RunningBetaA.Set(win.Mean())
		}

		if verbose && it%1000 == 0 {
			fmt.Printf(
				"Iter %6d sigma_e %.3E sigma_g %.3E beta_a(win) % .4f\n",
				it, mod.SigmaE, mod.SigmaG, win.Mean(),
			)
		}
	}

	fmt.Printf("Done in %v\n", time.Since(start))
	fmt.Printf("Rows written: %d (sink errors: %d)\n", written, gibbs.SinkErrs)
	fmt.Printf("Final beta_a: %g (windowed mean %g)\n", mod.BetaA, win.Mean())

	return nil
}

func loadData() (model.Data, error) {
	var d model.Data
	var err error

	d.Y, err = model.ReadVectorFile(filepath.Join(dataDir, "Y.txt"), nObs)
	if err != nil {
		return d, err
	}
	d.A, err = model.ReadVectorFile(filepath.Join(dataDir, "A.txt"), nObs)
	if err != nil {
		return d, err
	}

	m, err := model.ReadMatrixFile(filepath.Join(dataDir, "M.txt"), nObs, nMediators)
	if err != nil {
		return d, err
	}

	if standardize {
		y := denseFromVec(d.Y)
		a := denseFromVec(d.A)
		model.Standardize(y)
		model.Standardize(a)
		model.Standardize(m)
		d.Y = y.ColView(0)
		d.A = a.ColView(0)
	}
	d.M = m

	if nCovar1 > 0 {
		c1, err := model.ReadMatrixFile(filepath.Join(dataDir, "C1.txt"), nObs, nCovar1)
		if err != nil {
			return d, err
		}
		d.C1 = c1
	}
	if nCovar2 > 0 {
		c2, err := model.ReadMatrixFile(filepath.Join(dataDir, "C2.txt"), nObs, nCovar2)
		if err != nil {
			return d, err
		}
		d.C2 = c2
	}

	return d, nil
}

func denseFromVec(v mat.Vector) *mat.Dense {
	n := v.Len()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, v.AtVec(i))
	}
	return out
}
