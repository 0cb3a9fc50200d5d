package sampler

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// A Sink receives one row of retained samples per thinned post-burn-in
// iteration: for each mediator j in order, beta_m[j], pi_m[j], alpha_a[j],
// pi_a[j], followed by beta_a.
type Sink interface {
	Append(betaM, piM, alphaA, piA []float64, betaA float64) error
}

// Discard drops every row. Useful when only the final parameter state
// matters.
type Discard struct{}

// Append implements Sink by doing nothing.
func (Discard) Append(_, _, _, _ []float64, _ float64) error {
	return nil
}

// ResultsFileName is the conventional output name for a run with q mediators.
func ResultsFileName(q int) string {
	return fmt.Sprintf("results_%d.txt", q)
}

// FileSink appends rows to a text file: space-separated values, one
// newline-terminated row per call. Each Append is a full open/write/close
// cycle so every retained row is flushed even if the run dies later; the
// file is never truncated across a run.
type FileSink struct {
	Path string
}

// NewFileSink creates a sink writing to the given path.
func NewFileSink(path string) (*FileSink, error) {
	if len(path) < 1 {
		return nil, errors.New("No result file path supplied")
	}
	return &FileSink{Path: path}, nil
}

// Append implements Sink.
func (s *FileSink) Append(betaM, piM, alphaA, piA []float64, betaA float64) error {
	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "Could not open result file %s", s.Path)
	}

	var sb strings.Builder
	for j := range betaM {
		fmt.Fprintf(&sb, "%g %g %g %g ", betaM[j], piM[j], alphaA[j], piA[j])
	}
	fmt.Fprintf(&sb, "%g\n", betaA)

	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		return errors.Wrapf(err, "Could not append to result file %s", s.Path)
	}

	return errors.Wrapf(f.Close(), "Could not close result file %s", s.Path)
}
