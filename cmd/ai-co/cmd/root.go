package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/adapters/cli"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/clip"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/config"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/diagnostics"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/logging"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/service"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/tui"
)

var (
	// Version info - set via SetVersion()
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersion records build information for the version command.
func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// Copier makes the final answer available outside the terminal.
type Copier interface {
	Copy(text string) (clip.Result, error)
}

// rootOptions holds the flag values and collaborators of one command tree.
type rootOptions struct {
	configPath string
	solvers    []string
	consensus  string
	prompt     string

	loader    *config.Loader
	clipboard Copier
}

// Execute builds the command tree and runs it. Errors are printed to
// stderr before being returned.
func Execute(ctx context.Context) error {
	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		printError(root.ErrOrStderr(), err)
	}
	return err
}

// NewRootCmd creates the ai-co command with its subcommands.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{
		loader:    config.NewLoader(),
		clipboard: clip.New(),
	})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "ai-co",
		Short: "Orchestrate multiple AI CLIs with consensus functionality",
		Long: `ai-co sends one prompt to several AI command-line tools in parallel and
asks a consensus tool to synthesize their answers into one.

Running 'ai-co' without solvers, consensus tool and prompt lists the
configured tools.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}

	defaults := config.DefaultSettings()
	flags := root.Flags()
	flags.StringSliceVarP(&opts.solvers, "solvers", "s", nil,
		"comma-separated solver tool keys")
	flags.StringVarP(&opts.consensus, "consensus", "c", "",
		"tool key that synthesizes the consensus answer")
	flags.StringVarP(&opts.prompt, "prompt", "p", "",
		"prompt sent to every solver")

	persistent := root.PersistentFlags()
	persistent.StringVar(&opts.configPath, "config", config.DefaultConfigName,
		"config file, tried after ~/.config/ai-consensus-cli/config.toml")
	persistent.String("log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
	persistent.String("log-format", defaults.Log.Format, "log format (auto, text, json)")
	persistent.Bool("no-color", defaults.Output.NoColor, "disable colored output")
	persistent.Bool("quiet", defaults.Output.Quiet, "suppress progress output")
	flags.Bool("render", defaults.Output.Render, "render the answer as terminal markdown")
	flags.Bool("copy", defaults.Output.Copy, "copy the answer to the clipboard")

	// Bind flags to viper (errors are nil when flag exists)
	v := opts.loader.Viper()
	_ = v.BindPFlag("log.level", persistent.Lookup("log-level"))
	_ = v.BindPFlag("log.format", persistent.Lookup("log-format"))
	_ = v.BindPFlag("output.no_color", persistent.Lookup("no-color"))
	_ = v.BindPFlag("output.quiet", persistent.Lookup("quiet"))
	_ = v.BindPFlag("output.render", flags.Lookup("render"))
	_ = v.BindPFlag("output.copy", flags.Lookup("copy"))

	root.AddCommand(
		newVersionCmd(),
		newToolsCmd(opts),
		newDoctorCmd(opts),
		newInitCmd(),
	)
	return root
}

func (o *rootOptions) run(cmd *cobra.Command) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	doc, err := config.LoadRegistry(o.configPath)
	if err != nil {
		return err
	}
	if len(o.solvers) == 0 || o.consensus == "" || o.prompt == "" {
		printUsage(stdout, doc.Registry)
		return nil
	}

	settings, err := o.loader.Load(doc)
	if err != nil {
		return core.ErrConfig(core.CodeInvalidSettings, "invalid settings in "+doc.Path).WithCause(err)
	}
	logger, err := newLogger(settings, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()
	logger.Debug("config loaded", "path", doc.Path, "format", doc.Format, "tools", doc.Registry.Len())

	serviceOpts := []service.Option{service.WithLogger(logger)}
	var status *tui.StatusPrinter
	var preflight core.PreflightChecker = diagnostics.NewPreflight(settings.Diagnostics.Preflight)
	if !settings.Output.Quiet {
		status = tui.NewStatusPrinter(stderr, settings.Output.NoColor)
		serviceOpts = append(serviceOpts, service.WithReporter(status))
		preflight = printingPreflight{checker: preflight, status: status}
	}
	serviceOpts = append(serviceOpts, service.WithPreflight(preflight))

	orchestrator := service.NewOrchestrator(
		doc.Registry,
		cli.NewRunner(cli.DefaultLimits(), logger),
		cli.NewProber(),
		serviceOpts...,
	)

	result, err := orchestrator.Run(cmd.Context(), service.Request{
		Solvers:   o.solvers,
		Consensus: o.consensus,
		Prompt:    o.prompt,
	})
	if err != nil {
		if status != nil {
			status.Abort()
		}
		return err
	}

	writeAnswer(stdout, result.Consensus, settings, logger)

	if settings.Output.Copy {
		res, err := o.clipboard.Copy(result.Consensus)
		if err != nil {
			logger.Warn("copy failed", "error", err)
		} else if !settings.Output.Quiet {
			printCopyResult(stderr, res)
		}
	}
	return nil
}

func newLogger(settings *config.Settings, w io.Writer) (*logging.Logger, error) {
	return logging.New(logging.Config{
		Level:   settings.Log.Level,
		Format:  settings.Log.Format,
		File:    settings.Log.File,
		Output:  w,
		NoColor: settings.Output.NoColor,
		Redact:  settings.Log.Redact,
	})
}

// writeAnswer prints the answer, rendered as markdown when requested. A
// render failure falls back to the plain text.
func writeAnswer(w io.Writer, answer string, settings *config.Settings, logger *logging.Logger) {
	if settings.Output.Render {
		color := !settings.Output.NoColor && os.Getenv("NO_COLOR") == "" && tui.IsTerminal(w)
		rendered, err := tui.RenderMarkdown(answer, tui.TerminalWidth(w, tui.DefaultWrapWidth), color)
		if err == nil {
			_, _ = fmt.Fprint(w, rendered)
			return
		}
		logger.Warn("rendering answer failed", "error", err)
	}
	_, _ = fmt.Fprintln(w, answer)
}

func printCopyResult(w io.Writer, res clip.Result) {
	switch res.Method {
	case clip.MethodNative:
		_, _ = fmt.Fprintln(w, "📋 Copied to clipboard")
	case clip.MethodOSC52:
		_, _ = fmt.Fprintln(w, "📋 Copied to clipboard (terminal)")
	case clip.MethodFile:
		_, _ = fmt.Fprintf(w, "📋 Saved to %s\n", res.FilePath)
	}
}

// printingPreflight shows preflight warnings on the status output as soon
// as they are produced.
type printingPreflight struct {
	checker core.PreflightChecker
	status  *tui.StatusPrinter
}

func (p printingPreflight) Check(solverCount int) []string {
	warnings := p.checker.Check(solverCount)
	for _, w := range warnings {
		p.status.Warn(w)
	}
	return warnings
}
