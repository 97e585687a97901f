package updater

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/zfs-updater/internal/githubauth"
)

const (
	updateCommandUseConstant                = "update"
	updateCommandShortDescriptionConstant   = "Refresh zfs-cachyos/version.json from the newest CachyOS ZFS branch"
	updateCommandLongDescriptionConstant    = "update finds the newest zfs-x.y.z-cachyos branch of CachyOS/zfs, prefetches it with nix-prefetch-git, and writes the merged metadata to the configured output path."
	unexpectedArgumentsErrorMessageConstant = "update does not accept positional arguments"
	invalidConfigurationTemplateConstant    = "invalid updater configuration: %w"
	environmentFileErrorTemplateConstant    = "unable to load credentials: %w"
	updateStartedLogMessageConstant         = "update started"
	logFieldBranchesURLConstant             = "branches_url"
	logFieldRepositoryURLConstant           = "repository_url"
	logFieldEnvironmentFileConstant         = "environment_file"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current updater configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the update command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ServiceResolver       ServiceResolver
	EnvironmentLookup     githubauth.EnvironmentLookup
}

// Build constructs the update command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	updateCommand := &cobra.Command{
		Use:   updateCommandUseConstant,
		Short: updateCommandShortDescriptionConstant,
		Long:  updateCommandLongDescriptionConstant,
		RunE:  builder.Run,
	}

	return updateCommand, nil
}

// Run executes an update using the command's context and standard output.
func (builder *CommandBuilder) Run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	configuration := builder.resolveConfiguration()
	if validationError := configuration.Validate(); validationError != nil {
		return fmt.Errorf(invalidConfigurationTemplateConstant, validationError)
	}

	logger := builder.resolveLogger()

	credential, credentialError := builder.resolveCredential(configuration)
	if credentialError != nil {
		return credentialError
	}

	logger.Debug(
		updateStartedLogMessageConstant,
		zap.String(logFieldBranchesURLConstant, configuration.BranchesURL),
		zap.String(logFieldRepositoryURLConstant, configuration.RepositoryURL),
		zap.String(logFieldEnvironmentFileConstant, configuration.EnvironmentFile),
	)

	updateService, resolveError := builder.resolveService(logger, configuration, command)
	if resolveError != nil {
		return resolveError
	}

	_, updateError := updateService.Update(command.Context(), Options{
		Credential: credential,
		OutputPath: configuration.OutputPath,
	})
	return updateError
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveCredential(configuration Configuration) (string, error) {
	fileEnvironment, loadError := githubauth.LoadEnvironmentFile(configuration.EnvironmentFile)
	if loadError != nil {
		return "", fmt.Errorf(environmentFileErrorTemplateConstant, loadError)
	}

	if builder.EnvironmentLookup != nil {
		credential, _ := githubauth.ResolveTokenWithLookup(fileEnvironment, builder.EnvironmentLookup)
		return credential, nil
	}

	credential, _ := githubauth.ResolveToken(fileEnvironment)
	return credential, nil
}

func (builder *CommandBuilder) resolveService(logger *zap.Logger, configuration Configuration, command *cobra.Command) (Executor, error) {
	progressWriter := command.OutOrStdout()
	if builder.ServiceResolver != nil {
		return builder.ServiceResolver.Resolve(logger, configuration, progressWriter)
	}

	defaultResolver := &DefaultServiceResolver{}
	return defaultResolver.Resolve(logger, configuration, progressWriter)
}
