// Package main provides the CLI entrypoint for guessit.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/guessit/internal/config"
	"github.com/verte-zerg/guessit/internal/game"
	"github.com/verte-zerg/guessit/internal/generator"
	"github.com/verte-zerg/guessit/internal/logging"
	"github.com/verte-zerg/guessit/internal/model"
	"github.com/verte-zerg/guessit/internal/stats"
	"github.com/verte-zerg/guessit/internal/statsui"
	"github.com/verte-zerg/guessit/internal/store"
	"github.com/verte-zerg/guessit/internal/tui"
)

const (
	defaultSeed        = 0
	defaultRecord      = true
	defaultCurveWindow = 10
)

var (
	playMin     int
	playMax     int
	playSeed    int64
	playRecord  bool
	playVerbose bool

	statsSince  string
	statsLast   int
	statsWindow int
	statsPlain  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "guessit",
		Short:         "Terminal number-guessing game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().IntVar(&playMin, "min", game.DefaultMin, "lowest allowed guess")
	rootCmd.Flags().IntVar(&playMax, "max", game.DefaultMax, "highest allowed guess")
	rootCmd.Flags().Int64Var(&playSeed, "seed", defaultSeed, "random seed (0 = time based)")
	rootCmd.Flags().BoolVar(&playRecord, "record", defaultRecord, "save finished rounds to history")
	rootCmd.PersistentFlags().BoolVarP(&playVerbose, "verbose", "v", false, "log debug output")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "min", &playMin, fileCfg.Game.Min)
	applyConfig(cmd, "max", &playMax, fileCfg.Game.Max)
	applyConfig(cmd, "seed", &playSeed, fileCfg.Game.Seed)
	applyConfig(cmd, "record", &playRecord, fileCfg.Game.Record)

	cfg := model.Config{
		Min:    playMin,
		Max:    playMax,
		Seed:   playSeed,
		Record: playRecord,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	log, closeLog, err := logging.OpenFile(config.DefaultLogPath(), playVerbose)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		log = zerolog.Nop()
		closeLog = func() error { return nil }
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	var recorder tui.Recorder
	if cfg.Record {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
		recorder = st
	}

	session := game.NewSession(newSource(cfg.Seed), game.WithRange(cfg.Min, cfg.Max), game.WithLogger(log))
	engine := game.NewSerialized(session)
	log.Info().Int("min", cfg.Min).Int("max", cfg.Max).Bool("record", cfg.Record).Msg("starting game")

	m := tui.NewModel(engine, recorder, log)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := m.Err(); err != nil {
		return fmt.Errorf("game stopped: %w", err)
	}
	return nil
}

func newSource(seed int64) generator.Source {
	if seed == 0 {
		return generator.New()
	}
	return generator.NewSeeded(seed)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	created, err := config.EnsureFile(path, defaultConfigTemplate())
	if err != nil {
		return err
	}
	if created {
		log := logging.NewConsole(os.Stderr, playVerbose)
		log.Info().Str("path", path).Msg("wrote config template")
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show round history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N rounds")
	cmd.Flags().IntVar(&statsWindow, "window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := parseStatsConfig(statsSince, statsLast, statsWindow)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		return printStats(cmd.Context(), cmd.OutOrStdout(), st, cfg)
	}

	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func parseStatsConfig(since string, last, window int) (model.StatsConfig, error) {
	cfg := model.StatsConfig{Last: last, CurveWindow: window}
	if last < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	if window < 1 {
		return cfg, fmt.Errorf("--window must be >= 1")
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
}

func printStats(ctx context.Context, w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderSummary(w, report.Rounds); err != nil {
		return err
	}
	if len(report.Rounds) == 0 {
		return nil
	}
	if err := stats.RenderCurve(w, report.Rounds, cfg.CurveWindow); err != nil {
		return err
	}
	return stats.RenderRangeTable(w, report.RangeAggsAll)
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# guessit configuration
# Uncomment a value to enable it. Environment variables (GUESSIT_MIN, ...)
# override this file, and CLI flags override both.

[game]
# min = %d          # Lowest allowed guess
# max = %d         # Highest allowed guess
# seed = %d         # Random seed (0 = time based)
# record = %t    # Save finished rounds to history
`,
		game.DefaultMin,
		game.DefaultMax,
		defaultSeed,
		defaultRecord,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Min > cfg.Max {
		return fmt.Errorf("--min must be <= --max")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
