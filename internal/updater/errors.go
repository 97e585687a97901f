package updater

import (
	"errors"
	"fmt"
)

// Pipeline stages reported by StageError.
const (
	StageListBranches = "list_branches"
	StageSelectBranch = "select_branch"
	StagePrefetch     = "prefetch"
	StageWriteOutput  = "write_output"
)

const (
	loggerNotConfiguredMessageConstant         = "updater logger not configured"
	branchListerNotConfiguredMessageConstant   = "updater branch lister not configured"
	branchSelectorNotConfiguredMessageConstant = "updater branch selector not configured"
	fetcherNotConfiguredMessageConstant        = "updater prefetcher not configured"
	recordWriterNotConfiguredMessageConstant   = "updater record writer not configured"
	outputPathMissingMessageConstant           = "updater output path must be provided"
	stageErrorTemplateConstant                 = "%s: %v"
)

var stageDescriptions = map[string]string{
	StageListBranches: "failed to list branches",
	StageSelectBranch: "failed to select latest branch",
	StagePrefetch:     "failed to prefetch branch",
	StageWriteOutput:  "failed to save version info",
}

var (
	// ErrLoggerNotConfigured indicates the service was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrBranchListerNotConfigured indicates the service was constructed without a branch lister.
	ErrBranchListerNotConfigured = errors.New(branchListerNotConfiguredMessageConstant)
	// ErrBranchSelectorNotConfigured indicates the service was constructed without a branch selector.
	ErrBranchSelectorNotConfigured = errors.New(branchSelectorNotConfiguredMessageConstant)
	// ErrFetcherNotConfigured indicates the service was constructed without a prefetcher.
	ErrFetcherNotConfigured = errors.New(fetcherNotConfiguredMessageConstant)
	// ErrRecordWriterNotConfigured indicates the service was constructed without a record writer.
	ErrRecordWriterNotConfigured = errors.New(recordWriterNotConfiguredMessageConstant)
	// ErrOutputPathMissing indicates Update received a blank output path.
	ErrOutputPathMissing = errors.New(outputPathMissingMessageConstant)
)

// StageError names the pipeline stage that failed and wraps its cause.
type StageError struct {
	Stage string
	Cause error
}

// Error prefixes the cause with a description of the failed stage.
func (stageError StageError) Error() string {
	stageDescription, known := stageDescriptions[stageError.Stage]
	if !known {
		stageDescription = stageError.Stage
	}
	return fmt.Sprintf(stageErrorTemplateConstant, stageDescription, stageError.Cause)
}

// Unwrap exposes the stage failure.
func (stageError StageError) Unwrap() error {
	return stageError.Cause
}
