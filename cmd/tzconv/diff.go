package main

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/cobra"

	"github.com/ngrash/go-localtime/tzif"
	"github.com/ngrash/go-localtime/zone"
	"github.com/ngrash/go-localtime/zoneinfo"
)

func newDiffCmd(a *app) *cobra.Command {
	var loaded bool
	cmd := &cobra.Command{
		Use:   "diff <zone A> <zone B>",
		Short: "Compare two compiled zone files",
		Long: `diff compares two zone files section by section. With --loaded it
compares the zones as loaded for the configured host range instead, which
ignores encoding differences such as an unused version 1 section.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			af, err := a.readZone(args[0])
			if err != nil {
				return err
			}
			bf, err := a.readZone(args[1])
			if err != nil {
				return err
			}

			var diff string
			if loaded {
				diff, err = diffZones(af, bf, zoneinfo.Options{Range: a.cfg.Range()})
			} else {
				diff, err = diffData(af, bf)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if diff != "" {
				fmt.Fprintln(out, "files are different: -A +B")
				fmt.Fprintln(out, diff)
			} else {
				fmt.Fprintln(out, "files are identical")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&loaded, "loaded", false, "compare loaded zones instead of file sections")
	return cmd
}

func diffData(af, bf []byte) (string, error) {
	adata, err := tzif.Decode(af, true)
	if err != nil {
		return "", fmt.Errorf("A: %w", err)
	}
	bdata, err := tzif.Decode(bf, true)
	if err != nil {
		return "", fmt.Errorf("B: %w", err)
	}
	return cmp.Diff(adata, bdata, cmpopts.EquateEmpty()), nil
}

// zoneView is the part of a loaded zone that conversions observe, with
// abbreviations resolved so that buffer layout does not matter.
type zoneView struct {
	Types       []typeView
	Transitions []zone.Transition
	Leaps       []zone.LeapEntry
	Range       zone.Range
}

type typeView struct {
	Offset      int32
	IsDST       bool
	Abbr        string
	IsStd, IsUT bool
}

func viewOf(z *zone.Zone) zoneView {
	v := zoneView{Transitions: z.Transitions(), Leaps: z.Leaps(), Range: z.Range()}
	for i, tt := range z.Types() {
		v.Types = append(v.Types, typeView{Offset: tt.Offset, IsDST: tt.IsDST, Abbr: z.Abbr(i), IsStd: tt.IsStd, IsUT: tt.IsUT})
	}
	return v
}

func diffZones(af, bf []byte, opts zoneinfo.Options) (string, error) {
	az, err := zoneinfo.Parse(af, opts)
	if err != nil {
		return "", fmt.Errorf("A: %w", err)
	}
	bz, err := zoneinfo.Parse(bf, opts)
	if err != nil {
		return "", fmt.Errorf("B: %w", err)
	}
	return cmp.Diff(viewOf(az), viewOf(bz), cmpopts.EquateEmpty()), nil
}
