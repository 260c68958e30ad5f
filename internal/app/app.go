package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/funcsep/internal/annotate"
	"github.com/kobzarvs/funcsep/internal/config"
	"github.com/kobzarvs/funcsep/internal/grammar"
	"github.com/kobzarvs/funcsep/internal/logger"
	"github.com/kobzarvs/funcsep/internal/treesitter"
)

// App is the top-level runtime for funcsep.
type App struct {
	args   []string
	stdout io.Writer
	stderr io.Writer

	configPath string
	debug      bool

	cfg      config.Config
	registry *grammar.Registry
	engine   *treesitter.Engine
}

func New(args []string) *App {
	return &App{args: args, stdout: os.Stdout, stderr: os.Stderr}
}

// SetOutput redirects command output, for tests.
func (a *App) SetOutput(stdout, stderr io.Writer) {
	a.stdout = stdout
	a.stderr = stderr
}

func (a *App) Run() error {
	return a.RunContext(context.Background())
}

func (a *App) RunContext(ctx context.Context) error {
	root := a.rootCommand()
	root.SetArgs(a.args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	defer logger.Close()
	return root.ExecuteContext(ctx)
}

func (a *App) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "funcsep",
		Short: "Mark function definitions with separator banners",
		Long: `funcsep writes a comment banner above every function and method it finds,
and removes those banners again while restoring the blank lines that were there.

Each banner carries a hidden count of the blank lines it replaced, so
'funcsep remove' gives back the file exactly as it was.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default: ~/.config/funcsep/config.toml)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Write debug messages to the log file")

	cmd.AddCommand(
		a.annotateCommand(annotate.Insert),
		a.annotateCommand(annotate.Remove),
		a.annotateCommand(annotate.Refresh),
		a.nextCommand(),
		a.languagesCommand(),
		a.viewCommand(),
	)
	return cmd
}

// setup loads configuration and builds the parser shared by all commands.
func (a *App) setup() error {
	if err := logger.Init("", a.debug); err != nil {
		// Logging is best effort; the helpers are no-ops until Init succeeds.
		fmt.Fprintln(a.stderr, "funcsep: log file:", err)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.registry = grammar.Default()
	langs, err := config.LoadLanguages()
	if err != nil {
		logger.Warn("languages.toml ignored", "error", err)
	} else {
		a.registry.Extend(langs)
	}
	a.engine = treesitter.New(a.registry, treesitter.Options{OperationLimit: cfg.Parser.OperationLimit})
	logger.Debug("funcsep: started", "args", a.args, "languages", a.registry.IDs())
	return nil
}

func (a *App) loadConfig() (config.Config, error) {
	if a.configPath == "" {
		return config.Load()
	}
	if _, err := os.Stat(a.configPath); err != nil {
		return config.Default(), fmt.Errorf("config: %w", err)
	}
	return config.LoadFile(a.configPath)
}

func defaultJobs() int {
	return max(runtime.NumCPU(), 1)
}
