package execshell

import (
	"fmt"
	"strings"
)

const (
	nixPrefetchStartTemplateConstant            = "Running command: %s %s --rev %s"
	nixPrefetchSuccessTemplateConstant          = "Prefetched %s from %s"
	nixPrefetchFailureTemplateConstant          = "Failed to prefetch %s from %s (exit code %d%s)"
	nixPrefetchExecutionFailureTemplateConstant = "Unable to prefetch %s from %s: %s"
	genericStartTemplateConstant                = "Running %s"
	genericSuccessTemplateConstant              = "Completed %s"
	genericFailureTemplateConstant              = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant     = "%s failed: %s"
	nixPrefetchRevisionFlagConstant             = "--rev"
	commandArgumentsJoinSeparatorConstant       = " "
	workingDirectorySuffixTemplateConstant      = " (in %s)"
	standardErrorSuffixTemplateConstant         = ": %s"
	unknownFailureMessageConstant               = "unknown error"
	unknownValueLabelConstant                   = "unknown"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandNixPrefetchGit {
		return formatter.describeNixPrefetchMessage(command, result, failure, stage)
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeNixPrefetchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	repositoryURL := unknownValueLabelConstant
	if len(command.Details.Arguments) > 0 && !strings.HasPrefix(command.Details.Arguments[0], "-") {
		repositoryURL = command.Details.Arguments[0]
	}
	revision := flagValue(command.Details.Arguments, nixPrefetchRevisionFlagConstant)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(nixPrefetchStartTemplateConstant, command.Name, repositoryURL, revision)
	case messageStageSuccess:
		return fmt.Sprintf(nixPrefetchSuccessTemplateConstant, revision, repositoryURL)
	case messageStageFailure:
		return fmt.Sprintf(nixPrefetchFailureTemplateConstant, revision, repositoryURL, result.ExitCode, formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(nixPrefetchExecutionFailureTemplateConstant, revision, repositoryURL, describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(workingDirectory) == 0 {
		return commandLabel
	}
	return commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, workingDirectory)
}

func flagValue(arguments []string, flagName string) string {
	for argumentIndex := 0; argumentIndex+1 < len(arguments); argumentIndex++ {
		if arguments[argumentIndex] == flagName {
			return arguments[argumentIndex+1]
		}
	}
	return unknownValueLabelConstant
}

func formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := trimOutput(standardError)
	if len(trimmedStandardError) == 0 {
		return ""
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func trimOutput(output string) string {
	return strings.TrimSpace(output)
}
