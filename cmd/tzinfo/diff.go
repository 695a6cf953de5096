package main

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

func diffCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <zone|file A> <zone|file B>",
		Short: "Compare two decoded TZif files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			za, err := a.load(args[0])
			if err != nil {
				return err
			}
			zb, err := a.load(args[1])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if diff := cmp.Diff(za, zb); diff != "" {
				fmt.Fprintln(w, "files are different: -A +B")
				fmt.Fprintln(w, diff)
			} else {
				fmt.Fprintln(w, "files are identical")
			}
			return nil
		},
	}
}
