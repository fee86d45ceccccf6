// Package main provides the CLI entrypoint for wordsprint.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/wordsprint/internal/config"
	"github.com/verte-zerg/wordsprint/internal/controller"
	"github.com/verte-zerg/wordsprint/internal/dictionary"
	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/progresslog"
	"github.com/verte-zerg/wordsprint/internal/session"
	"github.com/verte-zerg/wordsprint/internal/stats"
	"github.com/verte-zerg/wordsprint/internal/tui"
)

const (
	defaultPollMs      = 50
	defaultTrendWindow = 5
)

var (
	practiceDicts   []string
	practiceMode    string
	practiceUniform bool
	practiceLog     string
	practicePollMs  int

	statsDict   string
	statsLast   int
	statsLog    string
	statsWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordsprint",
		Short:         "Timed word typing practice",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringSliceVar(&practiceDicts, "dict", nil, "dictionary id or path to a .num file (repeatable)")
	rootCmd.Flags().StringVar(&practiceMode, "mode", model.DefaultModeLabel, "timeout mode ("+strings.Join(model.ModeLabels(), ", ")+")")
	rootCmd.Flags().BoolVar(&practiceUniform, "uniform", false, "sample words uniformly instead of by frequency rank")
	rootCmd.Flags().StringVar(&practiceLog, "log", "", "session log name (default: data dir progress.log)")
	rootCmd.Flags().IntVar(&practicePollMs, "poll-ms", defaultPollMs, "timer poll interval in milliseconds")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDictsCmd())
	rootCmd.AddCommand(newModesCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv(config.DefaultEnvFilePath())
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}
	cfg := mergePracticeConfig(cmd, fileCfg.Practice, envCfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	paths, err := resolveDictionaryPaths(cfg.Dictionaries)
	if err != nil {
		return err
	}
	reg := dictionary.NewRegistry()
	if err := reg.LoadFiles(paths, dictionary.NewTimeSampler()); err != nil {
		logErrf("some dictionaries failed to load:\n%v\n", err)
	}
	if reg.Len() == 0 {
		return fmt.Errorf("no dictionary could be loaded (looked in %s)", config.DefaultDictionaryDir())
	}

	logger, closeLog, err := openDebugLogger(config.DefaultDebugLogPath())
	if err != nil {
		return err
	}
	defer closeLog()

	logName := cfg.LogName
	if logName == "" {
		logName = config.DefaultLogPath()
	}
	progress := progresslog.New(logName)
	ctrl, err := controller.New(reg, progress, session.New(!cfg.Uniform), controller.Options{
		Mode:   cfg.Mode,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if serr := ctrl.Shutdown(); serr != nil {
			logErrf("failed to save results: %v\n", serr)
		}
	}()

	if _, err := ctrl.SelectDictionary(reg.IDs()[0]); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	logger.Info("practice started", "dictionaries", strings.Join(reg.IDs(), ","), "mode", cfg.Mode, "log", progress.Path())

	m := tui.NewModel(ctrl, time.Duration(cfg.PollMs)*time.Millisecond)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// mergePracticeConfig layers flag defaults, the config file, the environment,
// and explicitly set flags, in increasing priority.
func mergePracticeConfig(cmd *cobra.Command, file config.PracticeConfig, envCfg config.EnvConfig) model.Config {
	if len(file.Dictionaries) > 0 && !cmd.Flags().Changed("dict") {
		practiceDicts = file.Dictionaries
	}
	applyStringConfig(cmd, "mode", &practiceMode, file.Mode)
	applyBoolConfig(cmd, "uniform", &practiceUniform, file.Uniform)
	applyStringConfig(cmd, "log", &practiceLog, file.Log)
	applyIntConfig(cmd, "poll-ms", &practicePollMs, file.PollMs)

	if len(envCfg.Dictionaries) > 0 && !cmd.Flags().Changed("dict") {
		practiceDicts = envCfg.Dictionaries
	}
	applyStringConfig(cmd, "mode", &practiceMode, nonEmpty(envCfg.Mode))
	applyBoolConfig(cmd, "uniform", &practiceUniform, envCfg.Uniform)
	applyStringConfig(cmd, "log", &practiceLog, nonEmpty(envCfg.Log))
	applyIntConfig(cmd, "poll-ms", &practicePollMs, envCfg.PollMs)

	return model.Config{
		Dictionaries: practiceDicts,
		Mode:         practiceMode,
		Uniform:      practiceUniform,
		LogName:      practiceLog,
		PollMs:       practicePollMs,
	}
}

func validateConfig(cfg model.Config) error {
	if _, ok := model.ModeByLabel(cfg.Mode); !ok {
		return fmt.Errorf("--mode must be one of: %s", strings.Join(model.ModeLabels(), ", "))
	}
	if cfg.PollMs <= 0 {
		return fmt.Errorf("--poll-ms must be > 0")
	}
	for _, d := range cfg.Dictionaries {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("--dict must not be empty")
		}
	}
	return nil
}

// resolveDictionaryPaths maps ids to files in the dictionary directory and
// keeps anything that looks like a path. With no input every *.num file in
// the dictionary directory is used.
func resolveDictionaryPaths(dicts []string) ([]string, error) {
	if len(dicts) == 0 {
		ids, err := listDictionaryIDs(config.DefaultDictionaryDir())
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("no dictionaries found in %s", config.DefaultDictionaryDir())
		}
		dicts = ids
	}
	paths := make([]string, 0, len(dicts))
	for _, d := range dicts {
		d = strings.TrimSpace(d)
		if strings.ContainsRune(d, filepath.Separator) || filepath.Ext(d) != "" {
			paths = append(paths, d)
			continue
		}
		paths = append(paths, config.DefaultDictionaryPath(d))
	}
	return paths, nil
}

func listDictionaryIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read dictionary directory: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != config.DictionaryExt {
			continue
		}
		ids = append(ids, dictionary.IDFromPath(entry.Name()))
	}
	sort.Strings(ids)
	return ids, nil
}

func openDebugLogger(path string) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(file, nil))
	return logger, func() {
		if cerr := file.Close(); cerr != nil {
			logErrf("failed to close debug log: %v\n", cerr)
		}
	}, nil
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
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newDictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dicts",
		Short: "List installed dictionaries",
		Args:  cobra.NoArgs,
		RunE:  runDictsCmd,
	}
}

func runDictsCmd(cmd *cobra.Command, _ []string) error {
	dir := config.DefaultDictionaryDir()
	ids, err := listDictionaryIDs(dir)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		logErrf("No dictionaries found. Put rank/frequency/word files named <id>%s into %s\n", config.DictionaryExt, dir)
		return fmt.Errorf("no dictionaries found")
	}
	for _, id := range ids {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), id); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List timeout modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, m := range model.Modes {
				line := fmt.Sprintf("%-8s %ds", m.Label, m.Seconds)
				if m.Seconds == 0 {
					line = fmt.Sprintf("%-8s checkpoint every %s", m.Label, session.CheckpointInterval)
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the session log",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsDict, "dict", "", "dictionary label filter (e.g. english.num)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N intervals")
	cmd.Flags().StringVar(&statsLog, "log", "", "session log name (default: data dir progress.log)")
	cmd.Flags().IntVar(&statsWindow, "window", defaultTrendWindow, "moving average window for trends")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "last", &statsLast, fileCfg.Stats.Last)
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsWindow <= 0 {
		return fmt.Errorf("--window must be > 0")
	}

	cfg := model.StatsConfig{
		Label:   statsDict,
		Last:    statsLast,
		LogName: statsLog,
	}
	if cfg.LogName == "" {
		cfg.LogName = config.DefaultLogPath()
	}
	path := progresslog.ResolveName(cfg.LogName)
	records, err := progresslog.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read session log: %w", err)
	}

	report := stats.BuildReport(records, cfg)
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderDictionaryTable(out, report.ByLabel); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderTrends(out, report, statsWindow, stats.TerminalWidth()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func nonEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wordsprint configuration
# Uncomment a value to enable it. WORDSPRINT_* environment variables (or the
# env file next to this one) override
# this file and CLI flags override both.

[practice]
# dictionaries = ["english"]  # Dictionary ids or paths (default: all in %s)
# mode = %q                   # One of: %s
# uniform = false             # Sample words uniformly instead of by rank
# log = "progress"            # Session log name (.log is appended)
# poll-ms = %d                # Timer poll interval in milliseconds

[stats]
# last = 0                    # Limit stats to the last N intervals
`,
		config.DefaultDictionaryDir(),
		model.DefaultModeLabel,
		strings.Join(model.ModeLabels(), ", "),
		defaultPollMs,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
