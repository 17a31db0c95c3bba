package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/phasekit/internal/cliconfig"
	"github.com/bft-labs/phasekit/pkg/lifecycle"
	pkglog "github.com/bft-labs/phasekit/pkg/log"
	"github.com/bft-labs/phasekit/pkg/watch"
)

const helpDescription = `
Run a lifecycle-managed directory watcher from the command line.

phasectl drives a phasekit watch component through its phased lifecycle:
it initializes the watcher, reports phase changes and filesystem event
counts as they happen, and tears the component down cleanly on SIGINT or
SIGTERM. With --auto-repair, a faulted component is recovered with
exponential backoff instead of staying down.
`

var exampleUsage = strings.TrimSpace(`
  phasectl --dir /etc/myapp
  phasectl --config $HOME/.phasectl/config.toml --auto-repair
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return lifecycle.Version
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "phasectl",
		Short:   "Run a lifecycle-managed directory watcher",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.phasectl/config.toml),
			// then env, then flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			log = log.Level(cliconfig.ParseLevel(cfg.LogLevel))
			log.Info().Interface("config", cfg).Msg("configuration")

			logger := pkglog.NewZerologLogger(log)

			opts := []watch.Option{watch.WithLogger(logger)}
			if cfg.StrictRestart {
				opts = append(opts, watch.WithStrictRestart())
			}
			w := watch.New(cfg.Dir, opts...)

			w.Machine().Subscribe(func(old, new lifecycle.Phase) {
				log.Info().
					Stringer("from", old).
					Stringer("to", new).
					Msg("phase change")
			})
			w.Stats().Subscribe(func(old, new *watch.Stats) {
				log.Debug().Uint64("total", new.Total()).Msg("fs activity")
			})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if err := w.Start(ctx); err != nil {
				if !cfg.AutoRepair {
					return fmt.Errorf("start watcher: %w", err)
				}
				log.Warn().Err(err).Msg("initial start failed, auto-repair will retry")
			}

			repairDone := make(chan struct{})
			if cfg.AutoRepair {
				go func() {
					defer close(repairDone)
					b := lifecycle.NewBackoff(cfg.RepairInitial, cfg.RepairMax)
					_ = lifecycle.RepairLoop(ctx, w.Machine(), b)
				}()
			} else {
				close(repairDone)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			<-sigCh
			log.Info().Msg("received signal, stopping...")

			cancel()
			<-repairDone

			if err := w.Stop(context.Background()); err != nil {
				return fmt.Errorf("stop watcher: %w", err)
			}
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.phasectl/config.toml)")
	root.Flags().StringVar(&cfg.Dir, "dir", cfg.Dir, "directory to watch")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.Flags().BoolVar(&cfg.AutoRepair, "auto-repair", cfg.AutoRepair, "recover a faulted watcher with backoff")
	root.Flags().DurationVar(&cfg.RepairInitial, "repair-initial", cfg.RepairInitial, "initial auto-repair backoff")
	root.Flags().DurationVar(&cfg.RepairMax, "repair-max", cfg.RepairMax, "maximum auto-repair backoff")
	root.Flags().BoolVar(&cfg.StrictRestart, "strict-restart", cfg.StrictRestart, "allow Restart only while initialized")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("phasectl")
		os.Exit(1)
	}
}
