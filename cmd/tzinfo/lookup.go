package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ngrash/go-tzinfo/tzinfo"
)

func lookupCommand(a *app) *cobra.Command {
	var (
		millis   bool
		earliest bool
	)
	cmd := &cobra.Command{
		Use:   "lookup <zone|file> [instant...]",
		Short: "Print the UTC offset in effect at the given instants",
		Long: `Print the UTC offset, DST flag and abbreviation in effect at each instant.

Instants are RFC 3339 timestamps, dates (2006-01-02) or date-times without
a zone, which are taken as UTC. With --millis they are milliseconds since
the Unix epoch. Without instants the current time is used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			z, err := a.load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(args) == 1 {
				now := time.Now()
				r, err := tzinfo.FindRule(z, now, earliest)
				if err != nil {
					return err
				}
				printRule(w, now, r)
				return nil
			}
			for _, s := range args[1:] {
				t, r, err := lookup(z, s, millis, earliest)
				if err != nil {
					return fmt.Errorf("%s: %w", s, err)
				}
				printRule(w, t, r)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&millis, "millis", false, "instants are milliseconds since the Unix epoch")
	cmd.Flags().BoolVar(&earliest, "earliest", false, "use the first rule for instants before the first transition")
	return cmd
}

func lookup(z *tzinfo.TzInfo, s string, millis, earliest bool) (time.Time, tzinfo.Rule, error) {
	if millis {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, tzinfo.Rule{}, fmt.Errorf("%w: %v", tzinfo.ErrBadInstant, err)
		}
		r, err := tzinfo.FindRuleMillis(z, ms, earliest)
		return time.UnixMilli(ms).UTC(), r, err
	}
	t, err := tzinfo.ParseInstant(s)
	if err != nil {
		return time.Time{}, tzinfo.Rule{}, err
	}
	r, err := tzinfo.FindRule(z, t, earliest)
	return t.UTC(), r, err
}

func printRule(w io.Writer, t time.Time, r tzinfo.Rule) {
	dst := "std"
	if r.IsDST {
		dst = "dst"
	}
	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		t.UTC().Format(time.RFC3339),
		t.In(r.Location()).Format("2006-01-02T15:04:05-07:00:00"),
		r.Abbreviation,
		dst)
}
