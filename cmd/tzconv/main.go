// Command tzconv converts between instants and civil time using compiled
// zone files and rule strings.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ngrash/go-localtime/internal/config"
	"github.com/ngrash/go-localtime/internal/logging"
	"github.com/ngrash/go-localtime/tzcache"
	"github.com/ngrash/go-localtime/zoneinfo"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by all subcommands.
type app struct {
	cfgFile  string
	zoneName string
	verbose  bool

	cfg   config.Config
	log   zerolog.Logger
	cache *tzcache.Cache
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "tzconv",
		Short: "Convert between instants and civil time",
		Long: `tzconv converts Unix instants to civil time and back in the local
zone (TZ, --zone or the config file), in UTC or at a fixed offset.

It also inspects compiled zone files and expands rule strings such as
"EST5EDT,M3.2.0,M11.1.0".`,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup(stderr) },
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (TOML, or YAML with a .yaml extension)")
	root.PersistentFlags().StringVarP(&a.zoneName, "zone", "z", "", "local zone name or rule, overriding TZ and the config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log zone loading")

	root.AddCommand(
		newCivilCmd(a),
		newInstantCmd(a),
		newInspectCmd(a),
		newDiffCmd(a),
		newRuleCmd(a),
		newPosixCmd(a),
	)
	return root
}

func (a *app) setup(stderr io.Writer) error {
	a.cfg = config.Default()
	if a.cfgFile != "" {
		cfg, err := config.Load(a.cfgFile)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	level := a.cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	log, err := logging.New(stderr, level, a.cfg.LogFormat)
	if err != nil {
		return err
	}
	a.log = log

	var names tzcache.NameSource = tzcache.EnvSource{}
	switch {
	case a.zoneName != "":
		names = tzcache.StaticSource{Name: a.zoneName}
	case a.cfg.Local != "":
		names = tzcache.StaticSource{Name: a.cfg.Local}
	}
	a.cache = tzcache.New(tzcache.Options{
		Names:    names,
		Resolver: a.cfg.Resolver(),
		Logger:   &a.log,
		Range:    a.cfg.Range(),
	})
	a.log.Debug().Strs("zone_dirs", a.cfg.ZoneDirs).Str("range", fmt.Sprintf("%+v", a.cfg.Range())).Msg("configured")
	return nil
}

func (a *app) resolver() zoneinfo.Resolver {
	return a.cfg.Resolver()
}
