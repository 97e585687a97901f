package updater

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/zfs-updater/internal/prefetch"
	"github.com/temirov/zfs-updater/internal/utils"
	"github.com/temirov/zfs-updater/internal/versioninfo"
)

const (
	startingMessageConstant           = "Starting ZFS CachyOS version update..."
	foundBranchTemplateConstant       = "Found latest branch: %s"
	savedTemplateConstant             = "Version info saved to: %s"
	completedMessageConstant          = "ZFS CachyOS version info update completed!"
	updateCompletedLogMessageConstant = "zfs version info updated"
	branchSelectedLogMessageConstant  = "latest branch selected"
	logFieldBranchConstant            = "branch"
	logFieldReferenceConstant         = "reference"
	logFieldCandidateCountConstant    = "candidate_count"
	logFieldOutputPathConstant        = "output_path"
	logFieldAuthenticatedConstant     = "authenticated"
)

// BranchLister returns every branch name of the upstream repository.
type BranchLister interface {
	ListBranches(executionContext context.Context, credential string) ([]string, error)
}

// BranchSelector picks the branch to package from a full listing.
type BranchSelector interface {
	SelectLatest(branchNames []string) (string, error)
}

// RecordWriter persists the merged version document.
type RecordWriter interface {
	Write(path string, record versioninfo.Record) error
}

// Dependencies enumerates the collaborators required by Service.
type Dependencies struct {
	Logger         *zap.Logger
	BranchLister   BranchLister
	BranchSelector BranchSelector
	Fetcher        prefetch.Fetcher
	RecordWriter   RecordWriter
	ProgressWriter io.Writer
}

// Options configures a single update run.
type Options struct {
	Credential string
	OutputPath string
}

// Result summarises a successful update run.
type Result struct {
	Branch      string
	Reference   string
	OutputPath  string
	BranchCount int
}

// Executor runs an update; Service satisfies it.
type Executor interface {
	Update(executionContext context.Context, options Options) (Result, error)
}

// Service orchestrates listing, selection, prefetching, and persistence.
type Service struct {
	logger         *zap.Logger
	branchLister   BranchLister
	branchSelector BranchSelector
	fetcher        prefetch.Fetcher
	recordWriter   RecordWriter
	progressWriter io.Writer
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.BranchLister == nil {
		return nil, ErrBranchListerNotConfigured
	}
	if dependencies.BranchSelector == nil {
		return nil, ErrBranchSelectorNotConfigured
	}
	if dependencies.Fetcher == nil {
		return nil, ErrFetcherNotConfigured
	}
	if dependencies.RecordWriter == nil {
		return nil, ErrRecordWriterNotConfigured
	}

	return &Service{
		logger:         dependencies.Logger,
		branchLister:   dependencies.BranchLister,
		branchSelector: dependencies.BranchSelector,
		fetcher:        dependencies.Fetcher,
		recordWriter:   dependencies.RecordWriter,
		progressWriter: utils.NewFlushingWriter(dependencies.ProgressWriter),
	}, nil
}

// Update runs the pipeline once. The output file is written only after every earlier stage succeeds.
func (service *Service) Update(executionContext context.Context, options Options) (Result, error) {
	outputPath := strings.TrimSpace(options.OutputPath)
	if len(outputPath) == 0 {
		return Result{}, ErrOutputPathMissing
	}

	service.printLine(startingMessageConstant)

	branchNames, listError := service.branchLister.ListBranches(executionContext, options.Credential)
	if listError != nil {
		return Result{}, StageError{Stage: StageListBranches, Cause: listError}
	}

	latestBranch, selectionError := service.branchSelector.SelectLatest(branchNames)
	if selectionError != nil {
		return Result{}, StageError{Stage: StageSelectBranch, Cause: selectionError}
	}

	reference := prefetch.ReferenceForBranch(latestBranch)
	service.logger.Info(
		branchSelectedLogMessageConstant,
		zap.String(logFieldBranchConstant, latestBranch),
		zap.String(logFieldReferenceConstant, reference),
		zap.Int(logFieldCandidateCountConstant, len(branchNames)),
		zap.Bool(logFieldAuthenticatedConstant, len(strings.TrimSpace(options.Credential)) > 0),
	)
	service.printLine(fmt.Sprintf(foundBranchTemplateConstant, latestBranch))

	prefetchOutput, fetchError := service.fetcher.Fetch(executionContext, reference)
	if fetchError != nil {
		return Result{}, StageError{Stage: StagePrefetch, Cause: fetchError}
	}

	record := versioninfo.Record{Branch: latestBranch, Prefetch: prefetchOutput}
	if writeError := service.recordWriter.Write(outputPath, record); writeError != nil {
		return Result{}, StageError{Stage: StageWriteOutput, Cause: writeError}
	}

	service.printLine(fmt.Sprintf(savedTemplateConstant, outputPath))
	service.printLine(completedMessageConstant)

	service.logger.Info(
		updateCompletedLogMessageConstant,
		zap.String(logFieldBranchConstant, latestBranch),
		zap.String(logFieldOutputPathConstant, outputPath),
	)

	return Result{
		Branch:      latestBranch,
		Reference:   reference,
		OutputPath:  outputPath,
		BranchCount: len(branchNames),
	}, nil
}

func (service *Service) printLine(line string) {
	fmt.Fprintln(service.progressWriter, line)
}
