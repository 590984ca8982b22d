// Package cli wires every exported component function to a cobra
// subcommand, in the style of turtacn/KeyIP-Intelligence's
// internal/interfaces/cli package: a root command that only registers
// children, one file per subcommand group, PersistentFlags for anything
// every subcommand needs.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes, per §6.
const (
	ExitSuccess       = 0
	ExitUsageError    = 1
	ExitSchemaError   = 2
	ExitGenerationErr = 3
	ExitValidationErr = 4
)

// Execute builds the root command and runs it, returning the process
// exit code.
func Execute() int {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "xsdcover: failed to initialize logger:", err)
		logger = zap.NewNop()
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	root := newRootCmd(logger)
	if err := root.ExecuteContext(ctx); err != nil {
		if coded, ok := err.(exitCoded); ok {
			return coded.ExitCode()
		}
		return ExitUsageError
	}
	return ExitSuccess
}

// exitCoded lets a subcommand's RunE attach the §7 error-taxonomy exit
// code that should terminate the process, without cobra's own error
// printing dictating it.
type exitCoded interface {
	error
	ExitCode() int
}

type codedError struct {
	err  error
	code int
}

func (c *codedError) Error() string { return c.err.Error() }
func (c *codedError) ExitCode() int { return c.code }

func withExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &codedError{err: err, code: code}
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "xsdcover",
		Short:         "Measure and generate XSD path coverage",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(newCoverageCmd(logger))
	cmd.AddCommand(newGenerateCmd(logger))
	cmd.AddCommand(newValidateCmd(logger))

	return cmd
}
