package ui

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/zfs-updater/internal/execshell"
)

// CommandProgressReporter prints command start lines to the console and records outcomes through zap.
type CommandProgressReporter struct {
	output    io.Writer
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewCommandProgressReporter constructs a reporter writing start lines to output.
// A nil output discards start lines and a nil logger discards outcomes.
func NewCommandProgressReporter(output io.Writer, logger *zap.Logger) *CommandProgressReporter {
	if output == nil {
		output = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandProgressReporter{output: output, logger: logger}
}

// CommandStarted implements execshell.CommandEventObserver by printing the invocation.
func (reporter *CommandProgressReporter) CommandStarted(command execshell.ShellCommand) {
	if reporter == nil {
		return
	}
	fmt.Fprintln(reporter.output, reporter.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver by logging the outcome.
func (reporter *CommandProgressReporter) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if reporter == nil {
		return
	}
	if result.ExitCode == 0 {
		reporter.logger.Info(reporter.formatter.BuildSuccessMessage(command))
		return
	}
	reporter.logger.Warn(reporter.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver by logging the failure.
func (reporter *CommandProgressReporter) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if reporter == nil {
		return
	}
	reporter.logger.Error(reporter.formatter.BuildExecutionFailureMessage(command, failure))
}
