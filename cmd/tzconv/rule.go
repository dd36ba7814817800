package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ngrash/go-localtime/posixtz"
	"github.com/ngrash/go-localtime/tzcache"
	"github.com/ngrash/go-localtime/zoneinfo"
)

func newRuleCmd(a *app) *cobra.Command {
	var (
		from     int64
		count    int
		defaults string
	)
	cmd := &cobra.Command{
		Use:   "rule <TZ string>",
		Short: "Expand a POSIX-style rule string into its transitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 {
				return fmt.Errorf("invalid --count %d", count)
			}
			opts := posixtz.Options{Range: a.cfg.Range()}
			if defaults != "" {
				d, err := zoneinfo.Load(defaults, a.resolver(), zoneinfo.Options{Range: a.cfg.Range()})
				if err != nil {
					return err
				}
				opts.Defaults = d
			}
			z, err := posixtz.Parse(args[0], opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Types")
			for i, tt := range z.Types() {
				fmt.Fprintf(out, "  %d\t%s\toff=%d\tdst=%t\n", i, z.Abbr(i), tt.Offset, tt.IsDST)
			}
			trans := z.Transitions()
			start := sort.Search(len(trans), func(i int) bool { return trans[i].At >= from })
			end := min(start+count, len(trans))
			fmt.Fprintf(out, "Transitions (%d of %d)\n", end-start, len(trans))
			for _, tr := range trans[start:end] {
				c, err := z.Civil(tr.At)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %d\t%s\ttype=%d\n", tr.At, c, tr.Type)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&from, "from", 0, "first instant to list transitions from")
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of transitions to list")
	cmd.Flags().StringVar(&defaults, "defaults", "", "zone whose transitions rules without dates borrow, e.g. "+tzcache.DefaultRules)
	return cmd
}
