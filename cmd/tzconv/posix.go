package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPosixCmd(a *app) *cobra.Command {
	var reverse bool
	cmd := &cobra.Command{
		Use:   "posix <instant>...",
		Short: "Remove the local zone's leap seconds from instants",
		Long: `posix converts instants that count leap seconds to POSIX instants,
which do not, using the local zone's leap second table. With --reverse it
converts POSIX instants back.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				t, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid instant %q: %w", arg, err)
				}
				var r int64
				if reverse {
					r, err = a.cache.Posix2Time(t)
				} else {
					r, err = a.cache.Time2Posix(t)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d\t%d\n", t, r)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "convert POSIX instants to leap-second instants")
	return cmd
}
