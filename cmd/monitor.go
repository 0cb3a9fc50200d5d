package cmd

import (
	"expvar"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
)

// monitor publishes chain progress over HTTP via the expvar handler. It is
// read-only observation: nothing in the sampler depends on it.
type monitor struct {
	info    *expvar.Map
	stopped chan struct{}
	server  *http.Server

	BurnIn         *expvar.Int
	MaxIters       *expvar.Int
	Mediators      *expvar.Int
	Iterations     *expvar.Int
	SamplesWritten *expvar.Int
	SinkErrs       *expvar.Int
	RunTime        *expvar.Float
	RunningBetaA   *expvar.Float
}

func (m *monitor) running() bool {
	return m.info != nil
}

// Start begins the monitor on the given address.
func (m *monitor) Start(addr string) error {
	if m.info != nil {
		return errors.Errorf("BUG: You may only start the process monitor once")
	}

	m.info = expvar.NewMap("mediate-progress")
	m.stopped = make(chan struct{})
	m.server = &http.Server{
		Addr: addr,
	}

	// Help the user and redirect to the only thing currently available:
	// the handler from the expvar package
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/debug/vars", http.StatusTemporaryRedirect)
	})

	m.BurnIn = expvar.NewInt("Burn-In")
	m.MaxIters = expvar.NewInt("Max-Iterations")
	m.Mediators = expvar.NewInt("Mediator-Count")
	m.Iterations = expvar.NewInt("Iterations")
	m.SamplesWritten = expvar.NewInt("Samples-Written")
	m.SinkErrs = expvar.NewInt("Sink-Errors")
	m.RunTime = expvar.NewFloat("Run-Time")
	m.RunningBetaA = expvar.NewFloat("Running-BetaA-Mean")

	// Actual server that will close the stopped channel on exit
	started := make(chan struct{})
	go func() {
		defer close(m.stopped)
		fmt.Fprintf(os.Stderr, "HTTP now available at %v (see debug/vars/)\n", m.server.Addr)
		close(started)
		m.server.ListenAndServe()
	}()

	<-started
	return nil
}

func (m *monitor) Stop() {
	if m.info == nil {
		return
	}

	m.server.Close()

	select {
	case <-m.stopped:
		fmt.Fprintf(os.Stderr, "HTTP Info Stopped\n")
	case <-time.After(2 * time.Second):
		fmt.Fprintf(os.Stderr, "HTTP would NOT stop: just continuing on\n")
	}
}
