package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/diceroller/internal/cliconfig"
	"github.com/bft-labs/diceroller/internal/console"
	"github.com/bft-labs/diceroller/internal/history"
	"github.com/bft-labs/diceroller/internal/selfcheck"
	"github.com/bft-labs/diceroller/internal/server"
	"github.com/bft-labs/diceroller/pkg/log"
	"github.com/bft-labs/diceroller/plugins/configwatcher"
)

const helpBanner = `
  .-------.    ______
 /   o   /|   /\     \
/_______/o|  /o \  o  \
| o     | | /   o\_____\
|   o   |o/ \o   /o    /
|     o |/   \ o/  o  /
'-------'     \/____o/
`

const helpDescription = `
Roll one or two six-sided dice from your terminal, or serve rolls over HTTP.

Highlights:
  - Interactive loop: pick 1 or 2 dice, press Enter to roll again.
  - Reproducible sessions with --seed.
  - Configure via file, env (DICEROLLER_*), .env, or flags.
  - "diceroller test" runs a self-check and exits non-zero on failure.
`

var longHelp = strings.TrimSpace(helpBanner) + "\n\n" + strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  diceroller
  diceroller --sides 20 --max-dice 3
  diceroller test
  diceroller serve --listen :8080 --seed 42
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line in args and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stderr)
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		a.zl.Error().Err(err).Msg("diceroller")
		return 1
	}
	return 0
}

// app holds the state shared by the commands of one invocation.
type app struct {
	cfg     cliconfig.Config
	cfgPath string
	envPath string
	changed map[string]bool

	zl     zerolog.Logger
	logger log.Logger
}

func newApp(stderr io.Writer) *app {
	zl := log.NewConsoleLogger(stderr, zerolog.InfoLevel)
	return &app{
		cfg:     cliconfig.DefaultConfig(),
		changed: map[string]bool{},
		zl:      zl,
		logger:  log.NewZerologAdapterWithLogger(zl),
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "diceroller",
		Short:             "Roll dice from the terminal or over HTTP",
		Long:              longHelp,
		Example:           exampleUsage,
		Version:           fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
		RunE:              a.runConsole,
	}

	testCmd := &cobra.Command{
		Use:   "test",
		Short: "Run the dice engine self-check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return selfcheck.Run(cmd.OutOrStdout(), a.cfg.NewRoller())
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rolls, history and roll events over HTTP",
		Args:  cobra.NoArgs,
		RunE:  a.runServer,
	}

	cfg := &a.cfg
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.diceroller/config.toml)")
	root.PersistentFlags().StringVar(&a.envPath, "env-file", ".env", "dotenv file with DICEROLLER_* variables (optional)")
	root.PersistentFlags().IntVar(&cfg.Sides, "sides", cfg.Sides, "faces per die")
	root.PersistentFlags().IntVar(&cfg.MaxDice, "max-dice", cfg.MaxDice, "largest number of dice per roll")
	root.PersistentFlags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for reproducible rolls (0 = random)")
	root.PersistentFlags().BoolVar(&cfg.Banner, "banner", cfg.Banner, "print the banner in interactive mode")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	serveCmd.Flags().StringVar(&cfg.Listen, "listen", cfg.Listen, "HTTP listen address")
	serveCmd.Flags().IntVar(&cfg.HistorySize, "history-size", cfg.HistorySize, "number of rolls kept in history")
	serveCmd.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload sides when the config file changes")

	root.AddCommand(testCmd, serveCmd)
	return root
}

// loadConfig layers defaults < file < env < flags into a.cfg.
func (a *app) loadConfig(cmd *cobra.Command, args []string) error {
	cmd.Flags().Visit(func(f *pflag.Flag) { a.changed[f.Name] = true })

	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&a.cfg, fc, a.changed); err != nil {
			return err
		}
	}
	a.cfgPath = cfgFile

	if err := cliconfig.LoadDotEnv(a.envPath); err != nil {
		return err
	}
	if err := cliconfig.ApplyEnvConfig(&a.cfg, a.changed); err != nil {
		return fmt.Errorf("env config: %w", err)
	}

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	lvl, _ := log.ParseLevel(a.cfg.LogLevel)
	a.zl = a.zl.Level(lvl)
	a.logger = log.NewZerologAdapterWithLogger(a.zl)
	a.zl.Debug().Interface("config", a.cfg).Str("config_path", a.cfgPath).Msg("configuration")
	return nil
}

func (a *app) runConsole(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := console.New(a.cfg.NewRoller(), cmd.InOrStdin(), cmd.OutOrStdout(),
		console.WithLogger(a.logger),
		console.WithMaxDice(a.cfg.MaxDice),
		console.WithBanner(a.cfg.Banner),
	)
	return c.Run(ctx)
}

func (a *app) runServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := a.cfg
	hist := history.New(cfg.HistorySize)
	srv := server.New(server.Config{
		Listen:  cfg.Listen,
		MaxDice: cfg.MaxDice,
		Sides:   cfg.Sides,
		Seed:    cfg.Seed,
	}, hist, server.WithLogger(a.logger))

	if cfg.Watch && a.cfgPath != "" {
		watcher := configwatcher.New(configwatcher.Config{
			Path: a.cfgPath,
			OnChange: func(fc cliconfig.FileConfig) {
				if fc.Sides <= 0 || a.changed["sides"] {
					return
				}
				if err := srv.SetSides(fc.Sides); err != nil {
					a.logger.Warn("ignoring reloaded sides", log.Err(err))
				}
			},
		}, configwatcher.WithLogger(a.logger))
		if err := watcher.Start(ctx); err != nil {
			a.logger.Warn("config watcher unavailable", log.Err(err))
		} else {
			defer watcher.Shutdown(context.Background())
		}
	}

	return srv.Start(ctx)
}
