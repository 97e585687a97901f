package updater

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/temirov/zfs-updater/internal/branches"
	"github.com/temirov/zfs-updater/internal/execshell"
	"github.com/temirov/zfs-updater/internal/filesystem"
	"github.com/temirov/zfs-updater/internal/githubapi"
	"github.com/temirov/zfs-updater/internal/prefetch"
	"github.com/temirov/zfs-updater/internal/ui"
	"github.com/temirov/zfs-updater/internal/utils"
	"github.com/temirov/zfs-updater/internal/versioninfo"
)

// ServiceResolver creates update executors for the command.
type ServiceResolver interface {
	Resolve(logger *zap.Logger, configuration Configuration, progressWriter io.Writer) (Executor, error)
}

// DefaultServiceResolver builds update services backed by the GitHub API, nix-prefetch-git, and the local file system.
type DefaultServiceResolver struct {
	HTTPClient    githubapi.HTTPClient
	CommandRunner execshell.CommandRunner
	FileSystem    versioninfo.FileSystem
}

// Resolve creates an update executor using configured collaborators or operating system defaults.
func (resolver *DefaultServiceResolver) Resolve(logger *zap.Logger, configuration Configuration, progressWriter io.Writer) (Executor, error) {
	progressWriter = utils.NewFlushingWriter(progressWriter)

	httpClient := resolver.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: configuration.RequestTimeout}
	}

	branchLister, listerError := githubapi.NewBranchListingService(logger, httpClient, githubapi.ServiceConfiguration{
		BaseURL:   configuration.BranchesURL,
		PageSize:  configuration.PageSize,
		UserAgent: configuration.UserAgent,
	})
	if listerError != nil {
		return nil, listerError
	}

	ordering, orderingError := branches.ParseOrdering(configuration.BranchOrdering)
	if orderingError != nil {
		return nil, orderingError
	}

	commandRunner := resolver.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}

	shellExecutor, executorError := execshell.NewShellExecutorWithObserver(
		logger,
		commandRunner,
		ui.NewCommandProgressReporter(progressWriter, logger),
	)
	if executorError != nil {
		return nil, executorError
	}

	fetcher, fetcherError := prefetch.NewNixPrefetchGitFetcher(logger, shellExecutor, configuration.RepositoryURL)
	if fetcherError != nil {
		return nil, fetcherError
	}

	fileSystem := resolver.FileSystem
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}

	recordWriter, writerError := versioninfo.NewWriter(logger, fileSystem)
	if writerError != nil {
		return nil, writerError
	}

	updateService, serviceError := NewService(Dependencies{
		Logger:         logger,
		BranchLister:   branchLister,
		BranchSelector: branches.NewSelector(nil, ordering),
		Fetcher:        fetcher,
		RecordWriter:   recordWriter,
		ProgressWriter: progressWriter,
	})
	if serviceError != nil {
		return nil, serviceError
	}

	return updateService, nil
}
