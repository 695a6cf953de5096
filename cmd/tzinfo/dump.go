package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ngrash/go-tzinfo/tzinfo"
)

func dumpCommand(a *app) *cobra.Command {
	var validate bool
	cmd := &cobra.Command{
		Use:   "dump <zone|file>",
		Short: "Print the header, data block and footer of a TZif file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			z, err := a.load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printInfo(w, z)
			if !validate {
				return nil
			}
			if err := tzinfo.Validate(z); err != nil {
				fmt.Fprintln(w, "Validation")
				for _, e := range unjoin(err) {
					fmt.Fprintf(w, "  %v\n", e)
				}
				return fmt.Errorf("%s is not a valid TZif file", args[0])
			}
			fmt.Fprintln(w, "Validation")
			fmt.Fprintln(w, "  ok")
			return nil
		},
	}
	cmd.Flags().BoolVar(&validate, "validate", false, "check RFC 8536 constraints")
	return cmd
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

func printInfo(w io.Writer, z *tzinfo.TzInfo) {
	printHeader(w, z.Header)

	fmt.Fprintln(w, "Data block", z.Version)
	fmt.Fprintf(w, "  TransitionTimes (%d) = %v\n", len(z.TransitionTimes), z.TransitionTimes)
	fmt.Fprintf(w, "  TransitionTypes (%d) = %v\n", len(z.TransitionTypes), z.TransitionTypes)
	fmt.Fprintf(w, "  Rules (%d)\n", len(z.Rules))
	for _, r := range z.Rules {
		fmt.Fprintf(w, "    %d: utoff=%d isdst=%t idx=%d abbr=%q std=%t ut=%t\n",
			r.Index, r.UTCOffset, r.IsDST, r.AbbreviationIndex, r.Abbreviation, r.IsStandardTime, r.IsUTC)
	}
	fmt.Fprintf(w, "  Abbreviations (%d) = %q\n", len(z.AbbreviationTable), z.Abbreviations())
	fmt.Fprintf(w, "  LeapSeconds (%d) = %+v\n", len(z.LeapSeconds), z.LeapSeconds)
	fmt.Fprintf(w, "  StandardWallIndicators (%d) = %v\n", len(z.StandardWallIndicators), z.StandardWallIndicators)
	fmt.Fprintf(w, "  UTLocalIndicators (%d) = %v\n", len(z.UTLocalIndicators), z.UTLocalIndicators)
	fmt.Fprintln(w)

	if z.Version > tzinfo.V1 {
		printFooter(w, z.Footer, z.TZString())
	}
}

func printHeader(w io.Writer, h tzinfo.Header) {
	fmt.Fprintln(w, "Header")
	fmt.Fprintln(w, "  version =", h.Version)
	fmt.Fprintln(w, "  isutcnt =", h.Isutcnt)
	fmt.Fprintln(w, "  isstdcnt =", h.Isstdcnt)
	fmt.Fprintln(w, "  leapcnt =", h.Leapcnt)
	fmt.Fprintln(w, "  timecnt =", h.Timecnt)
	fmt.Fprintln(w, "  typecnt =", h.Typecnt)
	fmt.Fprintln(w, "  charcnt =", h.Charcnt)
	fmt.Fprintln(w)
}

func printFooter(w io.Writer, footer, tz []byte) {
	fmt.Fprintln(w, "Footer")
	if tz != nil {
		fmt.Fprintln(w, "  TZString =", string(tz))
	} else if len(footer) > 0 {
		fmt.Fprintln(w, "  unframed data:", len(footer), "bytes")
		fmt.Fprintln(w, " ", string(footer))
	}
	fmt.Fprintln(w)
}
