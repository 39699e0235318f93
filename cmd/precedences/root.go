package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ericr/precedences/config"
	"github.com/ericr/precedences/encoding"
	"github.com/ericr/precedences/metrics"
)

// errConflict is returned by commands whose model has no solution under its
// assumptions.
var errConflict = errors.New("conflict")

type options struct {
	configPath string
	debug      bool
	metrics    bool
	stats      bool
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:           "precedences",
		Short:         "Propagates precedence constraints between integer variables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&o.configPath, "config", "", "path to a configuration file")
	cmd.PersistentFlags().BoolVar(&o.debug, "debug", false, "use debug log level")
	cmd.PersistentFlags().BoolVar(&o.metrics, "metrics", false, "print Prometheus counters to stderr when done")
	cmd.PersistentFlags().BoolVar(&o.stats, "stats", true, "print statistics to stderr when done")

	cmd.AddCommand(newCheckCmd(o), newQueryCmd(o))

	return cmd
}

// config returns the configuration given by the flags.
func (o *options) config() (*config.Config, error) {
	conf := config.New()
	if o.configPath != "" {
		c, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		conf = c
	}
	if o.debug {
		conf.Debug = true
		if l, ok := conf.Logger.(*logrus.Logger); ok {
			l.SetLevel(logrus.DebugLevel)
		}
	}
	if o.metrics {
		conf.Metrics = true
	}
	return conf, nil
}

// load reads the model at path and builds it.
func (o *options) load(path string) (*encoding.Instance, *config.Config, error) {
	conf, err := o.config()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening model")
	}
	defer f.Close()

	m, err := encoding.ParseModel(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading %s", path)
	}
	in, err := m.Build(conf)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "building %s", path)
	}
	conf.Logger.WithFields(logrus.Fields{
		"model":     path,
		"variables": in.NumVars(),
		"arcs":      in.Propagator.NumArcs(),
	}).Info("model loaded")

	return in, conf, nil
}

// finish prints the statistics and counters requested by the flags.
func (o *options) finish(w io.Writer, in *encoding.Instance, t time.Duration) error {
	if o.stats {
		displayStats(w, in, t)
	}
	if !o.metrics {
		return nil
	}
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		return errors.Wrap(err, "registering metrics")
	}
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}
	return nil
}

func displayStats(w io.Writer, in *encoding.Instance, t time.Duration) {
	p := in.Propagator
	tr := in.Trail

	fmt.Fprint(w, "\n")
	fmt.Fprintf(w, "Time Taken:      %fs\n", t.Seconds())
	fmt.Fprintf(w, "Variables:       %d\n", tr.NVars())
	fmt.Fprintf(w, "Literals:        %d\n", tr.NBoolVars())
	fmt.Fprintf(w, "Arcs:            %d\n", p.NumArcs())
	fmt.Fprintf(w, "Decisions:       %d\n", tr.NDecisions())
	fmt.Fprintf(w, "Propagations:    %d\n", p.NPropagations())
	fmt.Fprintf(w, "Tightenings:     %d\n", p.NTightenings())
	fmt.Fprintf(w, "Pruned Literals: %d\n", p.NPrunedLiterals())
	fmt.Fprintf(w, "Conflicts:       %d\n", p.NConflicts())
	fmt.Fprint(w, "\n")
}
