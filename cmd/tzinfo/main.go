// Command tzinfo inspects TZif files and the system zoneinfo directory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ngrash/go-tzinfo/internal/config"
	"github.com/ngrash/go-tzinfo/internal/logging"
	"github.com/ngrash/go-tzinfo/tzinfo"
	"github.com/ngrash/go-tzinfo/zoneinfo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// app holds the state shared by all subcommands.
type app struct {
	configPath string
	dirPath    string
	verbose    bool

	cfg   config.Config
	log   *zap.Logger
	cache *zoneinfo.Cache
}

func newRootCommand() *cobra.Command {
	a := &app{log: zap.NewNop()}
	cmd := &cobra.Command{
		Use:               "tzinfo",
		Short:             "Inspect TZif time zone files",
		Long:              `tzinfo decodes TZif files and resolves UTC offsets from the zoneinfo directory.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.log.Sync() },
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.dirPath, "dir", "", "zoneinfo directory (default: first existing search path)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug messages")

	cmd.AddCommand(
		whereCommand(a),
		listCommand(a),
		dumpCommand(a),
		lookupCommand(a),
		diffCommand(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	log, err := logging.New(level)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	a.log.Debug("configuration loaded",
		zap.String("file", a.configPath),
		zap.Strings("search_paths", cfg.SearchPaths),
		zap.Int("cache_size", cfg.CacheSize),
		zap.Int("workers", cfg.Workers))
	return nil
}

// dir returns the zoneinfo directory given by --dir or located from the
// configured search paths.
func (a *app) dir() (zoneinfo.Dir, error) {
	if a.dirPath != "" {
		return zoneinfo.Open(a.dirPath, zoneinfo.WithLogger(a.log)), nil
	}
	return zoneinfo.Locate(a.cfg.SearchPaths, zoneinfo.WithLogger(a.log))
}

func (a *app) zones() (*zoneinfo.Cache, error) {
	if a.cache != nil {
		return a.cache, nil
	}
	d, err := a.dir()
	if err != nil {
		return nil, err
	}
	c, err := zoneinfo.NewCache(d, a.cfg.CacheSize, zoneinfo.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	a.cache = c
	return c, nil
}

// load parses arg, which is either a file path or a zone name below the
// zoneinfo directory.
func (a *app) load(arg string) (*tzinfo.TzInfo, error) {
	if isPath(arg) {
		b, err := os.ReadFile(arg)
		if err != nil {
			return nil, err
		}
		z, err := tzinfo.Parse(b)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", arg, err)
		}
		return z, nil
	}
	c, err := a.zones()
	if err != nil {
		return nil, err
	}
	return c.Get(arg)
}

// isPath reports whether arg names a file rather than a zone.
func isPath(arg string) bool {
	return filepath.IsAbs(arg) || strings.HasPrefix(arg, "."+string(filepath.Separator)) || strings.HasPrefix(arg, ".."+string(filepath.Separator))
}
