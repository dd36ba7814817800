package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ngrash/go-localtime/tzcache"
	"github.com/ngrash/go-localtime/zone"
)

func newInstantCmd(a *app) *cobra.Command {
	var (
		utc    bool
		offset int32
		dst    string
	)
	cmd := &cobra.Command{
		Use:   "instant <YYYY-MM-DD HH:MM:SS>",
		Short: "Print the Unix instant of a civil time",
		Long: `instant converts a civil time to a Unix instant. Fields may be out of
range ("2024-01-32 25:00:00") and are normalized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := parseCivil(args[0])
			if err != nil {
				return err
			}
			want, err := parseDST(dst)
			if err != nil {
				return err
			}
			var t int64
			switch {
			case cmd.Flags().Changed("offset"):
				t, err = a.cache.FromCivilOffset(&tm, offset)
			case utc:
				t, err = a.cache.FromCivil(&tm, tzcache.SelectUTC, want)
			default:
				t, err = a.cache.FromCivil(&tm, tzcache.SelectLocal, want)
			}
			if err != nil {
				return err
			}
			printCivil(cmd.OutOrStdout(), t, tm)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&utc, "utc", "u", false, "interpret in UTC")
	cmd.Flags().Int32Var(&offset, "offset", 0, "interpret at a fixed offset in seconds east of UT")
	cmd.Flags().StringVar(&dst, "dst", "any", "daylight saving time in effect: on, off or any")
	return cmd
}

func parseCivil(s string) (zone.Civil, error) {
	var c zone.Civil
	in := strings.Replace(strings.TrimSpace(s), "T", " ", 1)
	n, err := fmt.Sscanf(in, "%d-%d-%d %d:%d:%d", &c.Year, &c.Month, &c.Day, &c.Hour, &c.Minute, &c.Second)
	if err != nil && n != 3 {
		return zone.Civil{}, fmt.Errorf("invalid civil time %q: want YYYY-MM-DD HH:MM:SS", s)
	}
	return c, nil
}

func parseDST(s string) (zone.DST, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return zone.DSTOn, nil
	case "off", "false", "0":
		return zone.DSTOff, nil
	case "any", "":
		return zone.DSTUnspecified, nil
	default:
		return zone.DSTUnspecified, fmt.Errorf("invalid --dst %q: want on, off or any", s)
	}
}
