package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericr/precedences/encoding"
	"github.com/ericr/precedences/lit"
	"github.com/ericr/precedences/precedence"
)

func newQueryCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "query model.yaml",
		Short: "Prints the direct precedences between the query variables of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, conf, err := o.load(args[0])
			if err != nil {
				return err
			}
			tStart := time.Now()
			ok := propagate(cmd.OutOrStdout(), in)

			if ok {
				entries := in.Propagator.ComputePrecedences(in.Query)
				conf.Logger.WithField("entries", len(entries)).Info("computed precedences")
				displayEntries(cmd.OutOrStdout(), in, entries)
			}
			if err := o.finish(cmd.ErrOrStderr(), in, time.Since(tStart)); err != nil {
				return err
			}
			if !ok {
				return errConflict
			}
			return nil
		},
	}
}

// displayEntries prints one line per entry, in topological order:
//
//	a -> b, c [l]
//
// where c is after a when l is true.
func displayEntries(w io.Writer, in *encoding.Instance, entries []precedence.Entry) {
	for _, e := range entries {
		after := []string{}
		for _, a := range e.After {
			s := in.QuantityName(a.Var)
			if a.Literal != lit.Undef {
				s += " [" + in.LitName(a.Literal) + "]"
			}
			after = append(after, s)
		}
		line := in.QuantityName(e.Var) + " ->"
		if len(after) > 0 {
			line += " " + strings.Join(after, ", ")
		}
		fmt.Fprintln(w, line)
	}
}
