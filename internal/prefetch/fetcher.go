package prefetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/zfs-updater/internal/execshell"
)

const (
	// DefaultRepositoryURL is the CachyOS ZFS fork prefetched by default.
	DefaultRepositoryURL = "https://github.com/CachyOS/zfs.git"

	branchReferencePrefixConstant        = "refs/heads/"
	revisionFlagConstant                 = "--rev"
	loggerNotConfiguredMessageConstant   = "prefetch logger not configured"
	executorNotConfiguredMessageConstant = "prefetch command executor not configured"
	repositoryURLMissingMessageConstant  = "prefetch repository URL must be provided"
	referenceMissingMessageConstant      = "prefetch reference must be provided"
	emptyOutputMessageConstant           = "nix-prefetch-git output is empty"
	commandErrorTemplateConstant         = "nix-prefetch-git failed: %v"
	outputDecodingErrorTemplateConstant  = "unable to parse nix-prefetch-git output: %v"
	outputNotObjectMessageConstant       = "output is not a JSON object"
	prefetchCompletedLogMessageConstant  = "prefetch completed"
	logFieldRepositoryConstant           = "repository"
	logFieldReferenceConstant            = "reference"
	logFieldOutputBytesConstant          = "output_bytes"
)

var (
	// ErrLoggerNotConfigured indicates a fetcher was built without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrExecutorNotConfigured indicates a fetcher was built without a command executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrRepositoryURLMissing indicates a fetcher was built without a repository URL.
	ErrRepositoryURLMissing = errors.New(repositoryURLMissingMessageConstant)
	// ErrReferenceMissing indicates Fetch received a blank reference.
	ErrReferenceMissing = errors.New(referenceMissingMessageConstant)
	// ErrEmptyOutput indicates nix-prefetch-git succeeded without printing anything.
	ErrEmptyOutput = errors.New(emptyOutputMessageConstant)

	errOutputNotObject = errors.New(outputNotObjectMessageConstant)
)

// CommandError reports a nix-prefetch-git invocation that failed or could not start.
type CommandError struct {
	Cause error
}

// Error describes the failure, including the command's standard error when present.
func (commandError CommandError) Error() string {
	return fmt.Sprintf(commandErrorTemplateConstant, commandError.Cause)
}

// Unwrap exposes the execshell failure.
func (commandError CommandError) Unwrap() error {
	return commandError.Cause
}

// OutputDecodingError reports standard output that is not a JSON object.
type OutputDecodingError struct {
	Output string
	Cause  error
}

// Error describes the decoding failure.
func (decodingError OutputDecodingError) Error() string {
	return fmt.Sprintf(outputDecodingErrorTemplateConstant, decodingError.Cause)
}

// Unwrap exposes the JSON decoding error.
func (decodingError OutputDecodingError) Unwrap() error {
	return decodingError.Cause
}

// Fetcher resolves a git reference into opaque prefetch metadata.
type Fetcher interface {
	Fetch(fetchContext context.Context, reference string) (json.RawMessage, error)
}

// CommandExecutor runs nix-prefetch-git.
type CommandExecutor interface {
	ExecuteNixPrefetchGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ReferenceForBranch builds the fully qualified ref for a branch name.
func ReferenceForBranch(branchName string) string {
	return branchReferencePrefixConstant + branchName
}

// NixPrefetchGitFetcher prefetches a fixed repository with nix-prefetch-git.
type NixPrefetchGitFetcher struct {
	logger        *zap.Logger
	executor      CommandExecutor
	repositoryURL string
}

// NewNixPrefetchGitFetcher validates collaborators and constructs a fetcher for repositoryURL.
func NewNixPrefetchGitFetcher(logger *zap.Logger, executor CommandExecutor, repositoryURL string) (*NixPrefetchGitFetcher, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	trimmedRepositoryURL := strings.TrimSpace(repositoryURL)
	if len(trimmedRepositoryURL) == 0 {
		return nil, ErrRepositoryURLMissing
	}

	return &NixPrefetchGitFetcher{
		logger:        logger,
		executor:      executor,
		repositoryURL: trimmedRepositoryURL,
	}, nil
}

// RepositoryURL reports the repository passed to nix-prefetch-git.
func (fetcher *NixPrefetchGitFetcher) RepositoryURL() string {
	return fetcher.repositoryURL
}

// Fetch runs nix-prefetch-git for reference and returns its JSON object output unchanged.
func (fetcher *NixPrefetchGitFetcher) Fetch(fetchContext context.Context, reference string) (json.RawMessage, error) {
	trimmedReference := strings.TrimSpace(reference)
	if len(trimmedReference) == 0 {
		return nil, ErrReferenceMissing
	}

	executionResult, executionError := fetcher.executor.ExecuteNixPrefetchGit(fetchContext, execshell.CommandDetails{
		Arguments: []string{fetcher.repositoryURL, revisionFlagConstant, trimmedReference},
	})
	if executionError != nil {
		return nil, CommandError{Cause: executionError}
	}

	trimmedOutput := strings.TrimSpace(executionResult.StandardOutput)
	if len(trimmedOutput) == 0 {
		return nil, ErrEmptyOutput
	}

	prefetchOutput, decodingError := decodeObject(trimmedOutput)
	if decodingError != nil {
		return nil, OutputDecodingError{Output: trimmedOutput, Cause: decodingError}
	}

	fetcher.logger.Debug(
		prefetchCompletedLogMessageConstant,
		zap.String(logFieldRepositoryConstant, fetcher.repositoryURL),
		zap.String(logFieldReferenceConstant, trimmedReference),
		zap.Int(logFieldOutputBytesConstant, len(prefetchOutput)),
	)

	return prefetchOutput, nil
}

func decodeObject(output string) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	decoder := json.NewDecoder(strings.NewReader(output))
	if decodeError := decoder.Decode(&fields); decodeError != nil {
		return nil, decodeError
	}
	if fields == nil {
		return nil, errOutputNotObject
	}
	if decoder.More() {
		return nil, errOutputNotObject
	}

	var compacted bytes.Buffer
	if compactError := json.Compact(&compacted, []byte(output)); compactError != nil {
		return nil, compactError
	}
	return json.RawMessage(compacted.Bytes()), nil
}
