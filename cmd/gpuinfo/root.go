package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/benaskins/gpuinfo/internal/config"
	"github.com/benaskins/gpuinfo/internal/gpu"
	"github.com/benaskins/gpuinfo/internal/metrics"
	"github.com/benaskins/gpuinfo/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	defaultInterval = time.Second
	defaultLogLevel = "warn"
	watchBanner     = "Watching GPU usage (press Ctrl+C to stop)..."
)

// Process I/O and the monitor factory; tests replace them.
var (
	stdout       io.Writer = os.Stdout
	logOut       io.Writer = os.Stderr
	styledOutput bool
	newQuerier   = func() gpu.Querier { return gpu.NewMonitor() }
)

var opts struct {
	watch       bool
	interval    string
	percent     bool
	full        bool
	json        bool
	configPath  string
	metricsAddr string
	logLevel    string
}

// settings is the effective configuration after merging config file and flags.
type settings struct {
	interval    time.Duration
	mode        report.Mode
	metricsAddr string
	logLevel    string
}

// usageError is a command-line mistake; usage is printed after the message.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:           "gpuinfo",
	Short:         "macOS GPU Usage Monitor",
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Args: func(_ *cobra.Command, args []string) error {
		if len(args) > 0 {
			return &usageError{fmt.Errorf("unknown option %s", args[0])}
		}
		return nil
	},
	RunE: runRoot,
}

func init() {
	rootCmd.SetVersionTemplate(versionTemplate)
	rootCmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		printUsage(c.OutOrStdout())
	})
	rootCmd.SetUsageFunc(func(c *cobra.Command) error {
		printUsage(c.OutOrStdout())
		return nil
	})
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	f := rootCmd.Flags()
	f.BoolVarP(&opts.watch, "watch", "w", false, "watch GPU usage continuously")
	f.StringVarP(&opts.interval, "interval", "i", "1", "update interval in seconds")
	f.BoolVarP(&opts.percent, "percent", "p", false, "show only the percentage number")
	f.BoolVarP(&opts.full, "full", "f", false, "show full GPU information")
	f.BoolVar(&opts.json, "json", false, "print each snapshot as a JSON object")
	f.StringVar(&opts.configPath, "config", "", "YAML settings file")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while watching")
	f.StringVar(&opts.logLevel, "log-level", defaultLogLevel, "diagnostic log level")
}

// execute runs the command line and returns the process exit code.
// Command output and CLI errors both go to stdout.
func execute(ctx context.Context, args []string) int {
	if args == nil {
		args = []string{}
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stdout)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		var uerr *usageError
		if errors.As(err, &uerr) {
			printUsage(stdout)
		}
		return 1
	}
	return 0
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg := &config.Config{}
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	s, err := resolve(cmd.Flags(), cfg)
	if err != nil {
		return err
	}

	setupLogging(logOut, s.logLevel)

	if !opts.watch {
		if opts.metricsAddr != "" {
			return &usageError{errors.New("--metrics-addr requires --watch")}
		}
		return report.Write(stdout, newQuerier().Query(), s.mode, report.Options{Styled: styledOutput})
	}
	return watch(cmd.Context(), cmd.Flags(), s)
}

// resolve applies defaults, then the config file, then explicitly set flags.
func resolve(flags *pflag.FlagSet, cfg *config.Config) (settings, error) {
	s := settings{
		interval: defaultInterval,
		mode:     report.ModeDefault,
		logLevel: defaultLogLevel,
	}

	if cfg.Interval != nil {
		s.interval = seconds(*cfg.Interval)
	}
	if cfg.Mode != "" {
		mode, err := report.ParseMode(cfg.Mode)
		if err != nil {
			return settings{}, err
		}
		s.mode = mode
	}
	if cfg.LogLevel != "" {
		s.logLevel = cfg.LogLevel
	}
	s.metricsAddr = cfg.MetricsAddr

	if flags.Changed("interval") {
		v, err := strconv.ParseFloat(opts.interval, 64)
		if err != nil || config.ValidateInterval(v) != nil {
			return settings{}, fmt.Errorf("Invalid interval value: %s", opts.interval)
		}
		s.interval = seconds(v)
	}

	switch {
	case opts.percent:
		s.mode = report.ModePercent
	case opts.full:
		s.mode = report.ModeFull
	case opts.json:
		s.mode = report.ModeJSON
	}

	if flags.Changed("log-level") {
		s.logLevel = opts.logLevel
	}
	if flags.Changed("metrics-addr") {
		s.metricsAddr = opts.metricsAddr
	}
	return s, nil
}

func watch(ctx context.Context, flags *pflag.FlagSet, s settings) error {
	var current atomic.Pointer[settings]
	current.Store(&s)

	if opts.configPath != "" {
		path := opts.configPath
		go func() {
			err := config.Watch(ctx, path, func(cfg *config.Config) {
				next, err := resolve(flags, cfg)
				if err != nil {
					slog.Warn("ignoring reloaded config", "error", err)
					return
				}
				logLevel.Set(parseLogLevel(next.logLevel))
				current.Store(&next)
			})
			if err != nil {
				slog.Warn("config reload disabled", "path", path, "error", err)
			}
		}()
	}

	var m *metrics.Metrics
	if s.metricsAddr != "" {
		m = metrics.New()
		srv := metrics.NewServer(s.metricsAddr, m)
		if err := srv.Start(); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				slog.Warn("stopping metrics server", "error", err)
			}
		}()
	}

	q := newQuerier()

	if s.mode == report.ModeDefault {
		fmt.Fprintln(stdout, watchBanner)
	}

	interval := func() time.Duration {
		return current.Load().interval
	}
	return gpu.Watch(ctx, q, interval, func(info gpu.Info) error {
		if m != nil {
			m.Observe(info)
		}
		return report.Write(stdout, info, current.Load().mode, report.Options{Styled: styledOutput})
	})
}

// seconds converts a validated interval; values past the Duration range saturate.
func seconds(v float64) time.Duration {
	if v >= config.MaxIntervalSeconds {
		return math.MaxInt64
	}
	return time.Duration(v * float64(time.Second))
}
