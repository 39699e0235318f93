package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericr/precedences/encoding"
	"github.com/ericr/precedences/integer"
	"github.com/ericr/precedences/trail"
)

func newCheckCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check model.yaml",
		Short: "Propagates a model under its assumptions and prints the resulting bounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, conf, err := o.load(args[0])
			if err != nil {
				return err
			}
			tStart := time.Now()
			ok := propagate(cmd.OutOrStdout(), in)
			conf.Logger.Info("finished propagating")

			if ok {
				fmt.Fprint(cmd.OutOrStdout(), "FEASIBLE\n")
				displayBounds(cmd.OutOrStdout(), in)
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

// propagate runs the propagation at the root, then assumes each assumption at
// its own decision level. On conflict it prints its explanation and returns
// false.
func propagate(w io.Writer, in *encoding.Instance) bool {
	tr := in.Trail

	if !tr.Propagate() {
		fmt.Fprint(w, "CONFLICT at root\n")
		fmt.Fprintf(w, "Reason: {%s}\n", in.ReasonString(tr.Explain(tr.Conflict())))
		return false
	}
	for _, l := range in.Assumptions {
		if !tr.Assume(l) || !tr.Propagate() {
			fmt.Fprintf(w, "CONFLICT assuming %s\n", in.LitName(l))
			fmt.Fprintf(w, "Reason: {%s}\n", in.ReasonString(tr.Explain(tr.Conflict())))
			return false
		}
	}
	return true
}

func displayBounds(w io.Writer, in *encoding.Instance) {
	tr := in.Trail

	for v := 0; v < in.NumVars(); v++ {
		x := integer.Var(v)
		min, max := tr.Bounds(x)
		fmt.Fprintf(w, "%s in [%d, %d]", in.VarName(x), min, max)

		if present, ok := in.Presence[x]; ok {
			switch tr.Value(present) {
			case trail.True:
				fmt.Fprint(w, " present")
			case trail.False:
				fmt.Fprint(w, " absent")
			default:
				fmt.Fprint(w, " optional")
			}
		}
		fmt.Fprint(w, "\n")
	}
}
