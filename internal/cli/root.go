package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/davidfowl/tally/pkg/log"
)

const (
	cmdName = "tally"
	cmdDesc = `Categorize personal-finance transactions with expression rules.`
)

type RootArgs struct {
	// shutdown flushes the tracer provider after the command ran.
	shutdown func(context.Context) error

	LogLevel  string
	LogFormat string
	ConfigDir string
	Yes       bool
	Quiet     bool
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigDir, "config-dir", "", "Path to the tally configuration directory")
	cmd.PersistentFlags().
		BoolVarP(&ra.Yes, "yes", "y", false, "Accept all migration prompts")
	cmd.PersistentFlags().
		BoolVarP(&ra.Quiet, "quiet", "q", false, "Suppress informational output")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagDirname("config-dir")
	if err != nil {
		panic(err)
	}
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	rulesArgs := NewRulesArgs(args)

	rulesCmd := NewRulesCmd(rulesArgs)
	migrateCmd := NewMigrateCmd(NewMigrateArgs(args))

	cmd := &cobra.Command{
		Use:                cmdName,
		Short:              cmdDesc,
		Example:            cmdExamples,
		PersistentPreRunE:  setup(args),
		PersistentPostRunE: teardown(args),
		Args:               rulesCmd.Args,
		RunE:               rulesCmd.RunE,
	}

	args.AddFlags(cmd)
	rulesArgs.AddFlags(cmd)
	cmd.AddCommand(rulesCmd, migrateCmd)

	bindEnvVars(cmd)

	return cmd
}

// setup installs the slog handler and the tracer provider before any
// subcommand runs.
func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.NewHandler(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		shutdown, err := setupTracing(cmd.Context())
		if err != nil {
			return fmt.Errorf("setup tracing: %w", err)
		}

		ra.shutdown = shutdown

		return nil
	}
}

func teardown(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if ra.shutdown == nil {
			return nil
		}

		err := ra.shutdown(cmd.Context())
		if err != nil {
			return fmt.Errorf("shutdown tracing: %w", err)
		}

		return nil
	}
}
