package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool
var randomSeed int64
var dataDir string
var nObs int
var nMediators int
var nCovar1 int
var nCovar2 int

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mediate",
	Short: "Gibbs sampling for sparse linear mediation models",
	Long: `mediate fits a two-stage linear mediation model with spike-and-slab
variable selection on the mediator effects and the exposure-mediator
associations. Among other features:

  - A Gibbs sampler with adaptive prior inclusion probabilities
  - Plain-text matrix input and appended result rows
  - A synthetic data generator for quick experiments
`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging (default is much more parsimonious)")
	rootCmd.PersistentFlags().Int64VarP(&randomSeed, "seed", "r", 1, "Random seed to use")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", ".", "Directory holding Y.txt, A.txt, M.txt (and C1.txt/C2.txt)")
	rootCmd.PersistentFlags().IntVarP(&nObs, "nobs", "n", 0, "Observation count")
	rootCmd.PersistentFlags().IntVarP(&nMediators, "mediators", "q", 0, "Candidate mediator count")
	rootCmd.PersistentFlags().IntVar(&nCovar1, "w1", 0, "Outcome-stage covariate count")
	rootCmd.PersistentFlags().IntVar(&nCovar2, "w2", 0, "Mediator-stage covariate count")

	rootCmd.MarkPersistentFlagRequired("nobs")
	rootCmd.MarkPersistentFlagRequired("mediators")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(synthCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
