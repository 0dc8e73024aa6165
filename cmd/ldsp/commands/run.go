// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/ldsp"
	"github.com/ik5/ldsp/config"
	"github.com/ik5/ldsp/files"
	"github.com/ik5/ldsp/observe"
	"github.com/ik5/ldsp/sketches"
)

var (
	runBackend  string
	runSketch   string
	runAssets   string
	runDuration time.Duration
	runKeys     bool
	runStats    time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a sketch until interrupted",
	Long: `Run opens the configured streams, calls the sketch's setup and renders
until SIGINT, SIGTERM, --duration or q with --keys.

With --keys on a terminal:
  1-4  select a slider
  + -  move the selected slider by 0.05
  t    toggle a touch on slot 0
  q    quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyRunFlags(cmd, cfg)
		if err := config.Validate(cfg); err != nil {
			return err
		}

		logger := newLogger(cfg.LogLevel)
		slog.SetDefault(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if runDuration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, runDuration)
			defer cancel()
		}

		return run(ctx, cfg, logger, runKeys)
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runBackend, "backend", "", "audio backend: malgo, oto or headless")
	f.StringVar(&runSketch, "sketch", "", "built-in sketch to run")
	f.StringVar(&runAssets, "assets", "", "directory for relative asset paths")
	f.DurationVar(&runDuration, "duration", 0, "stop after this long (0 runs until interrupted)")
	f.BoolVar(&runKeys, "keys", false, "drive sliders and touch from the keyboard")
	f.DurationVar(&runStats, "stats", 0, "log render counters at this interval")
}

// applyRunFlags overrides cfg with the flags set on the command line.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("backend") {
		cfg.Backend = runBackend
	}
	if f.Changed("sketch") {
		cfg.Sketch = runSketch
	}
	if f.Changed("assets") {
		cfg.AssetsDir = runAssets
	}
	// oto cannot capture.
	if cfg.Backend == config.BackendOto && f.Changed("backend") {
		cfg.Audio.FullDuplex = false
	}
}

// run starts one instance and blocks until ctx is done or the keyboard
// quits.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, keys bool) error {
	provider := observe.InitProvider(cfg.ProjectName)
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("metrics shutdown", "err", err)
		}
	}()
	metrics, err := observe.NewMetrics(provider)
	if err != nil {
		return err
	}

	env := sketches.Env{Loader: files.NewLoader(cfg.AssetsDir, logger), Logger: logger}
	sketch, err := sketches.New(cfg.Sketch, sketches.Params(cfg.Params), env)
	if err != nil {
		return err
	}

	backend, release, err := newBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			logger.Warn("backend release", "err", err)
		}
	}()

	inst, err := ldsp.New(ldsp.Options{
		Backend:     backend,
		Sketch:      sketch,
		Stream:      cfg.StreamConfig(),
		ProjectName: cfg.ProjectName,
		TouchInfo:   cfg.TouchInfo(),
		Logger:      logger,
		Metrics:     metrics,
	})
	if err != nil {
		return err
	}
	defer inst.Close()

	if err := inst.Start(); err != nil {
		return fmt.Errorf("start %s on %s: %w", cfg.Sketch, backend.Name(), err)
	}
	neg := inst.Negotiated()
	logger.Info("running",
		"sketch", cfg.Sketch,
		"backend", backend.Name(),
		"sample_rate", neg.SampleRate,
		"frames", neg.FramesPerBlock,
		"in", neg.InputChannels,
		"out", neg.OutputChannels,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})
	if keys {
		restore, err := rawStdin()
		if err != nil {
			return err
		}
		defer restore()
		g.Go(func() error {
			return readKeys(gctx, os.Stdin, &keyController{c: inst, log: logger})
		})
	}
	if runStats > 0 {
		g.Go(func() error {
			logStats(gctx, inst, logger, runStats)
			return nil
		})
	}

	err = g.Wait()
	if errors.Is(err, errQuit) {
		err = nil
	}
	if stopErr := inst.Stop(); stopErr != nil {
		err = errors.Join(err, stopErr)
	}

	points, sumErr := provider.Summary(context.Background())
	if sumErr != nil {
		logger.Warn("metrics summary", "err", sumErr)
	}
	for _, p := range points {
		logger.Info("metric", "name", p.Name, "attrs", p.Attrs, "value", p.Value)
	}
	return err
}

func logStats(ctx context.Context, inst *ldsp.LDSP, logger *slog.Logger, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s := inst.Stats()
			logger.Debug("stats",
				"blocks", s.Blocks,
				"underruns", s.Underruns,
				"overflows", s.Overflows,
				"last", time.Duration(s.LastRenderNs),
				"max", time.Duration(s.MaxRenderNs),
			)
		}
	}
}
