package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/pkg/logger_i"
	"github.com/spf13/cobra"
)

var (
	ErrUsage            = errors.New("usage error")
	ErrValidationFailed = errors.New("validation failed")
	ErrGateFailed       = errors.New("probe gate failed")
)

const defaultConfigPath = "kbcurator.toml"

// app is the state shared by every subcommand of one root command.
type app struct {
	cfgFile  string
	logLevel string
	noColor  bool

	cfg    *config.Config
	styles styles
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage), isCobraUsage(err):
		return 2
	default:
		return 1
	}
}

// isCobraUsage matches the usage errors cobra builds itself, which bypass the flag error func.
func isCobraUsage(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "required flag(s)")
}

// NewRootCmd wires the cobra tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Curate a coaching knowledge base: inventory, classify, reorganize, validate and embed",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", defaultConfigPath, "config file (TOML or YAML); missing means defaults")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides the config)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	root.AddCommand(
		newInventoryCmd(a),
		newClassifyCmd(a),
		newReorganizeCmd(a),
		newValidateCmd(a),
		newTransformCmd(a),
		newEmbedCmd(a),
		newProbeCmd(a),
		newIndexInfoCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logger_i.Init(logger_i.Options{
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.Format == "json",
		Output: cmd.ErrOrStderr(),
	})
	a.cfg = cfg
	a.styles = newStyles(a.noColor)
	return nil
}

// usageArgs wraps a cobra argument check so a failure exits with the usage code.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		return nil
	}
}
