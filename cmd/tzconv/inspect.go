package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ngrash/go-localtime/tzif"
	"github.com/ngrash/go-localtime/zoneinfo"
)

func newInspectCmd(a *app) *cobra.Command {
	var printV1 bool
	cmd := &cobra.Command{
		Use:   "inspect <zone file or name>",
		Short: "Print the sections of a compiled zone file and check it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.readZone(args[0])
			if err != nil {
				return err
			}
			d, err := tzif.Decode(b, true)
			if err != nil {
				return fmt.Errorf("decoding: %w", err)
			}
			out := cmd.OutOrStdout()
			printData(out, d, printV1)

			if err := tzif.Validate(d); err != nil {
				fmt.Fprintln(out, "Validation")
				for _, e := range unjoin(err) {
					fmt.Fprintln(out, " ", e)
				}
				return errors.New("zone file is invalid")
			}
			z, err := zoneinfo.Parse(b, zoneinfo.Options{Range: a.cfg.Range()})
			if err != nil {
				return fmt.Errorf("loading: %w", err)
			}
			s := z.Summary()
			fmt.Fprintln(out, "Zone")
			fmt.Fprintf(out, "  types = %d, transitions = %d, leaps = %d\n", len(z.Types()), len(z.Transitions()), len(z.Leaps()))
			fmt.Fprintf(out, "  default type = %d, goback = %t, goahead = %t\n", z.DefaultType(), z.GoBack(), z.GoAhead())
			fmt.Fprintf(out, "  std = %q (%d), dst = %q, has dst = %t\n", s.StdAbbr, s.StdOffset, s.DSTAbbr, s.HasDST)
			return nil
		},
	}
	cmd.Flags().BoolVar(&printV1, "v1", false, "always print the version 1 header and data")
	return cmd
}

// readZone reads arg as a file if it exists and resolves it as a zone name
// otherwise.
func (a *app) readZone(arg string) ([]byte, error) {
	if fi, err := os.Stat(arg); err == nil && fi.Mode().IsRegular() {
		return os.ReadFile(arg)
	}
	return a.resolver().Resolve(arg)
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

func printData(w io.Writer, d tzif.Data, v1 bool) {
	if !d.Wide || v1 {
		printBlock(w, d.V1Header, d.V1Data)
	}
	if d.Wide {
		printBlock(w, d.V2Header, d.V2Data)
		fmt.Fprintln(w, "Footer")
		if d.HasFooter {
			fmt.Fprintln(w, "  TZString =", string(d.V2Footer.TZString))
		} else {
			fmt.Fprintln(w, "  (none)")
		}
		fmt.Fprintln(w)
	}
}

func printBlock(w io.Writer, h tzif.Header, b tzif.DataBlock) {
	fmt.Fprintln(w, "Header")
	fmt.Fprintln(w, "  version =", h.Version)
	fmt.Fprintln(w, "  isutcnt =", h.Isutcnt)
	fmt.Fprintln(w, "  isstdcnt =", h.Isstdcnt)
	fmt.Fprintln(w, "  leapcnt =", h.Leapcnt)
	fmt.Fprintln(w, "  timecnt =", h.Timecnt)
	fmt.Fprintln(w, "  typecnt =", h.Typecnt)
	fmt.Fprintln(w, "  charcnt =", h.Charcnt)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Data block (%d-octet times)\n", b.TimeSize)
	fmt.Fprintf(w, "  TransitionTimes (%d) = %v\n", len(b.TransitionTimes), b.TransitionTimes)
	fmt.Fprintf(w, "  TransitionTypes (%d) = %v\n", len(b.TransitionTypes), b.TransitionTypes)
	fmt.Fprintf(w, "  LocalTimeTypeRecord (%d) = %+v\n", len(b.LocalTimeTypeRecord), b.LocalTimeTypeRecord)
	fmt.Fprintf(w, "  TimeZoneDesignation (%d) = %q\n", len(b.TimeZoneDesignation), strings.Split(strings.TrimSuffix(string(b.TimeZoneDesignation), "\x00"), "\x00"))
	fmt.Fprintf(w, "  LeapSecondRecords (%d) = %+v\n", len(b.LeapSecondRecords), b.LeapSecondRecords)
	fmt.Fprintf(w, "  StandardWallIndicators (%d) = %v\n", len(b.StandardWallIndicators), b.StandardWallIndicators)
	fmt.Fprintf(w, "  UTLocalIndicators (%d) = %v\n", len(b.UTLocalIndicators), b.UTLocalIndicators)
	fmt.Fprintln(w)
}
