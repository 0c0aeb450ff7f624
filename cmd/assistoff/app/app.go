package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/component-base/term"

	"assistoff.io/assistoff/cmd/assistoff/app/options"
	"assistoff.io/assistoff/pkg/log"
)

const (
	commandName = "assistoff"
	commandDesc = `assistoff watches the Elite Dangerous status file and switches Flight Assist
back off whenever the game reports it on, unless the landing gear is down or
the commander is driving the SRV.`
)

// ErrUsage is matched by every UsageError.
var ErrUsage = errors.New("usage error")

// UsageError reports a command line the program cannot run with. The usage
// text has already been printed when it is returned.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string { return e.Reason }

func (e *UsageError) Is(target error) bool { return target == ErrUsage }

func NewAssistOffCommand(ctx context.Context) *cobra.Command {
	opts := options.NewAssistOffOptions()
	cmd := &cobra.Command{
		Use:          commandName + " [flags] <directory>",
		Short:        "Keep Flight Assist off in Elite Dangerous",
		Long:         commandDesc,
		SilenceUsage: true,
		// main reports errors itself to pick the exit code
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				_ = cmd.Usage()
				return &UsageError{Reason: fmt.Sprintf("expected one directory argument, got %d", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Load(cmd.Flags()); err != nil {
				return err
			}
			if err := opts.Complete(args); err != nil {
				return err
			}
			if opts.WatchOptions.Dir == "" {
				_ = cmd.Usage()
				return &UsageError{Reason: "missing directory argument"}
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			if err := log.Init(opts.Log); err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
				log.Debug(fmt.Sprintf(format, args...))
			}))
			if err != nil {
				log.Warn("Failed to set GOMAXPROCS", "error", err)
			}
			defer undo()

			return run(ctx, cmd, opts)
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		_ = c.Usage()
		return &UsageError{Reason: err.Error()}
	})

	fs := cmd.Flags()
	namedfs := opts.Flags()
	namedfs.FlagSet("global").BoolP("help", "h", false, fmt.Sprintf("help for %s", cmd.Name()))
	for _, f := range namedfs.FlagSets {
		fs.AddFlagSet(f)
	}

	cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
	cliflag.SetUsageAndHelpFunc(cmd, namedfs, cols)

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts *options.AssistOffOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := opts.Config()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	agent, err := cfg.NewAgent(ctx)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	printBanner(cmd.OutOrStdout(), opts)
	go watchQuitKey(cmd.InOrStdin(), func() {
		log.Info("Quit requested")
		cancel()
	})

	return agent.Run(ctx)
}
