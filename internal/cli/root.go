package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/rtop/internal/config"
	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/logger"
	"github.com/rileyhilliard/rtop/internal/monitor"
	"github.com/rileyhilliard/rtop/internal/proc"
	"github.com/rileyhilliard/rtop/internal/procview"
	"github.com/rileyhilliard/rtop/internal/ui"
)

// rootFlags holds the values of the root command flags.
type rootFlags struct {
	Config   string
	Interval time.Duration
	Flat     bool
	Sort     string
	Debug    bool
}

var flags rootFlags

// rootCmd runs the dashboard. There are no subcommands.
var rootCmd = &cobra.Command{
	Use:   "rtop",
	Short: "Interactive process monitor",
	Long: `Show every process on this machine as a live, navigable table or tree.

The view refreshes in the background while selection, expanded subtrees,
sort, filter and column layout stay where you left them. Preferences are
saved on quit and with 'w'.

Keyboard shortcuts:
  up/k, down/j   Move the selection
  left/h         Collapse, or jump to the parent
  right/l        Expand
  space          Toggle the selected subtree
  t              Tree / flat view
  d              Details panel
  /              Filter by name, state or user
  s, S, i        Cycle sort column, invert direction
  c, m, n, p     Sort by CPU, memory, name, PID
  C              Configure columns
  w              Save preferences
  ?              Help
  q / Ctrl+C     Quit

Examples:
  rtop
  rtop --flat --sort mem
  rtop --interval 2s --sort name:asc`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New(errors.ErrTerminal,
				"rtop needs an interactive terminal",
				"Run it directly in a terminal rather than through a pipe or redirect.")
		}

		log, closeLog := logger.NewFileLogger(logger.DefaultPath(), flags.Debug)
		defer func() { _ = closeLog() }()
		logger.SetDefault(log)

		path := flags.Config
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err := loadSettings(cmd, &flags, path, log)
		if err != nil {
			return err
		}
		return runDashboard(cmd.Context(), cfg, path, log)
	},
}

func init() {
	addRootFlags(rootCmd, &flags)
	applyVersion()
}

// addRootFlags registers the dashboard flags on cmd.
func addRootFlags(cmd *cobra.Command, f *rootFlags) {
	cmd.Flags().StringVar(&f.Config, "config", "", "preferences file (default $XDG_CONFIG_HOME/rtop/config.yaml)")
	cmd.Flags().DurationVar(&f.Interval, "interval", config.DefaultInterval, "refresh interval (e.g., 500ms, 2s)")
	cmd.Flags().BoolVar(&f.Flat, "flat", false, "start in the flat list instead of the tree")
	cmd.Flags().StringVar(&f.Sort, "sort", "", "initial sort column, optionally with :asc or :desc (e.g., mem, name:asc)")
	cmd.Flags().BoolVar(&f.Debug, "debug", false, "write debug entries to the log file")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if isUnknownCommandError(err) {
			if name := extractUnknownCommand(err); name != "" {
				fmt.Fprintf(os.Stderr, "rtop takes no arguments (got %q). Run 'rtop --help' for flags.\n", name)
				os.Exit(1)
			}
		}
		fmt.Fprint(os.Stderr, ui.FormatError(err))
		os.Exit(1)
	}
}

// loadSettings reads the preferences file and applies flag overrides. A
// missing or malformed file falls back to defaults with a logged warning.
func loadSettings(cmd *cobra.Command, f *rootFlags, path string, log logger.Logger) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		log.Warn("preferences: %s", errors.Summary(err))
	}
	for _, note := range config.Normalize(cfg) {
		log.Warn("config: %s", note)
	}
	if err := applyFlags(cmd, f, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(cmd *cobra.Command, f *rootFlags, cfg *config.Config) error {
	fs := cmd.Flags()
	if fs.Changed("interval") {
		cfg.Interval = config.ClampInterval(f.Interval)
	}
	if fs.Changed("flat") {
		cfg.Tree = !f.Flat
	}
	if fs.Changed("sort") {
		s, err := parseSortFlag(f.Sort)
		if err != nil {
			return err
		}
		cfg.Sort = s
	}
	return nil
}

// parseSortFlag parses "key", "key:asc" or "key:desc". Without a direction
// names and PIDs sort ascending and metrics descending.
func parseSortFlag(value string) (config.SortConfig, error) {
	key, dir, hasDir := strings.Cut(strings.ToLower(strings.TrimSpace(value)), ":")
	attr := procview.Attr(key)
	if !attr.Known() {
		return config.SortConfig{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' is not a column rtop can sort by", key),
			"Use one of: "+strings.Join(attrNames(), ", "))
	}

	s := config.SortConfig{Key: key, Ascending: attr == procview.AttrName || attr == procview.AttrPID}
	if !hasDir {
		return s, nil
	}
	switch dir {
	case "asc":
		s.Ascending = true
	case "desc":
		s.Ascending = false
	default:
		return config.SortConfig{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' is not a sort direction", dir),
			"Use asc or desc, e.g. --sort mem:asc")
	}
	return s, nil
}

func attrNames() []string {
	attrs := procview.Attrs()
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = string(a)
	}
	return names
}

// runDashboard wires the snapshot source, collector and view into the TUI
// and runs it until the user quits. The final layout is saved on a clean
// exit.
func runDashboard(ctx context.Context, cfg *config.Config, path string, log logger.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("starting, interval %s, config %s", cfg.Interval, path)

	view := procview.New(viewOptions(cfg))
	collector := monitor.NewCollector(proc.NewSystemSource(), cfg.Interval, log)
	go collector.Run(ctx)

	save := func(l monitor.Layout) error {
		applyLayout(cfg, l)
		return config.Save(path, cfg)
	}
	model := monitor.NewModel(view, collector, monitor.Options{
		Details: cfg.Details,
		Save:    save,
		Logger:  log,
	})

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"The dashboard stopped unexpectedly",
			"Check that the terminal supports full-screen programs.")
	}

	if m, ok := final.(monitor.Model); ok && m.Quitting() {
		if err := save(m.Layout()); err != nil {
			log.Error("saving preferences on exit: %v", err)
		}
	}
	log.Info("stopped")
	return nil
}

// viewOptions converts the preferences into the initial view setup.
func viewOptions(cfg *config.Config) procview.Options {
	cols := make([]procview.ColumnConfig, len(cfg.Columns))
	for i, c := range cfg.Columns {
		cols[i] = procview.ColumnConfig{
			Key:     procview.Attr(c.Key),
			Visible: c.Visible,
			Width:   c.Width,
			Order:   c.Order,
		}
	}
	return procview.Options{
		Sort:                  procview.SortSpec{Key: procview.Attr(cfg.Sort.Key), Ascending: cfg.Sort.Ascending},
		Tree:                  cfg.Tree,
		Columns:               cols,
		FilterHonorsCollapsed: cfg.FilterKeepsCollapsed,
	}
}

// applyLayout copies the dashboard layout back into the preferences.
func applyLayout(cfg *config.Config, l monitor.Layout) {
	cfg.Tree = l.Tree
	cfg.Details = l.Details
	cfg.Sort = config.SortConfig{Key: string(l.Sort.Key), Ascending: l.Sort.Ascending}
	cfg.Columns = make([]config.ColumnConfig, len(l.Columns))
	for i, c := range l.Columns {
		cfg.Columns[i] = config.ColumnConfig{
			Key:     string(c.Key),
			Visible: c.Visible,
			Width:   c.Width,
			Order:   c.Order,
		}
	}
}

// isUnknownCommandError reports whether cobra rejected an argument or flag.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the quoted command name out of cobra's
// "unknown command" error.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
