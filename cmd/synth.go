package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/dstrother/mediate/model"
	"github.com/dstrother/mediate/rand"
)

var nActive int

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Generate a synthetic mediation dataset into --data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSynth()
	},
}

func init() {
	synthCmd.Flags().IntVarP(&nActive, "active", "a", 1, "Number of truly active mediators")
}

func runSynth() error {
	gen, err := rand.NewGenerator(randomSeed)
	if err != nil {
		return err
	}

	syn := model.GenerateSynthetic(gen, nObs, nMediators, nActive, nCovar1, nCovar2)
	d := syn.Data

	out := []struct {
		name string
		m    mat.Matrix
	}{
		{"Y.txt", d.Y},
		{"A.txt", d.A},
		{"M.txt", d.M},
		{"C1.txt", d.C1},
		{"C2.txt", d.C2},
	}

	for _, o := range out {
		if o.m == nil {
			continue
		}
		path := filepath.Join(dataDir, o.name)
		if err := model.WriteMatrixFile(path, o.m); err != nil {
			return err
		}
		if verbose {
			fmt.Printf("Wrote %s\n", path)
		}
	}

	return writeTruth(filepath.Join(dataDir, "truth.txt"), syn)
}

func writeTruth(path string, syn *model.Synthetic) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Could not create %s", path)
	}

	fmt.Fprintf(f, "beta_a %g\n", syn.BetaA)
	for j := range syn.BetaM {
		fmt.Fprintf(f, "beta_m[%d] %g alpha_a[%d] %g\n", j, syn.BetaM[j], j, syn.AlphaA[j])
	}

	return errors.Wrapf(f.Close(), "Could not close %s", path)
}
