package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func whereCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Print the zoneinfo directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.dir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), d.Root())
			return nil
		},
	}
}

func listCommand(a *app) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the TZif files in the zoneinfo directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.dir()
			if err != nil {
				return err
			}
			names, err := d.List(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !check {
				for _, name := range names {
					fmt.Fprintln(w, name)
				}
				return nil
			}
			zones, err := d.LoadAll(cmd.Context(), names, a.cfg.Workers)
			if err != nil {
				return err
			}
			for _, name := range names {
				z := zones[name]
				fmt.Fprintf(w, "%s  %s  %d transitions  %d types\n", name, z.Version, z.Timecnt, z.Typecnt)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "parse every file and print a summary")
	return cmd
}
