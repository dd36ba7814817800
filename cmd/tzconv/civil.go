package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ngrash/go-localtime/tzcache"
	"github.com/ngrash/go-localtime/zone"
)

func newCivilCmd(a *app) *cobra.Command {
	var (
		utc    bool
		offset int32
	)
	cmd := &cobra.Command{
		Use:   "civil <instant>...",
		Short: "Print the civil time of Unix instants",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixed := cmd.Flags().Changed("offset")
			out := cmd.OutOrStdout()
			for _, arg := range args {
				t, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid instant %q: %w", arg, err)
				}
				var c zone.Civil
				switch {
				case fixed:
					c, err = a.cache.CivilOffset(t, offset)
				case utc:
					c, err = a.cache.Civil(t, tzcache.SelectUTC)
				default:
					c, err = a.cache.Civil(t, tzcache.SelectLocal)
				}
				if err != nil {
					return err
				}
				printCivil(out, t, c)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&utc, "utc", "u", false, "convert in UTC")
	cmd.Flags().Int32Var(&offset, "offset", 0, "convert at a fixed offset in seconds east of UT")
	return cmd
}

func printCivil(w io.Writer, t int64, c zone.Civil) {
	fmt.Fprintf(w, "%d\t%s\t%.3s\tyday=%d\tdst=%t\toff=%d\n", t, c, c.Weekday, c.YearDay, c.IsDST, c.Offset)
}
