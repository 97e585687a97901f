package updater

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/temirov/zfs-updater/internal/branches"
	"github.com/temirov/zfs-updater/internal/githubapi"
	"github.com/temirov/zfs-updater/internal/gitrepo"
	"github.com/temirov/zfs-updater/internal/prefetch"
	pathutils "github.com/temirov/zfs-updater/internal/utils/path"
)

var updaterConfigurationHomeDirectoryExpander = pathutils.NewHomeExpander()

const (
	// DefaultBranchesURL lists the branches of the CachyOS ZFS fork.
	DefaultBranchesURL = "https://api.github.com/repos/CachyOS/zfs/branches"
	// DefaultOutputPath is the version document location relative to the working directory.
	DefaultOutputPath = "zfs-cachyos/version.json"
	// DefaultRequestTimeout bounds each branch listing request.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultEnvironmentFile is the optional dotenv file consulted for credentials.
	DefaultEnvironmentFile = ".env"

	configurationKeySeparatorConstant     = "."
	branchesURLKeyConstant                = "branches_url"
	repositoryURLKeyConstant              = "repository_url"
	outputPathKeyConstant                 = "output_path"
	pageSizeKeyConstant                   = "page_size"
	userAgentKeyConstant                  = "user_agent"
	requestTimeoutKeyConstant             = "request_timeout"
	branchOrderingKeyConstant             = "branch_ordering"
	environmentFileKeyConstant            = "environment_file"
	missingValueTemplateConstant          = "updater %s must be provided"
	invalidURLTemplateConstant            = "updater %s %q is not an absolute URL"
	invalidRepositoryURLTemplateConstant  = "updater %s is invalid: %v"
	nonPositiveValueTemplateConstant      = "updater %s must be positive, got %v"
	invalidOrderingTemplateConstant       = "updater %s: %v"
	genericValidationTemplateConstant     = "updater %s failed %s validation"
	mapstructureTagNameConstant           = "mapstructure"
	gitRepositoryURLValidationTagConstant = "git_repository_url"
	branchOrderingValidationTagConstant   = "branch_ordering"
	requiredValidationTagConstant         = "required"
	urlValidationTagConstant              = "url"
	minimumValidationTagConstant          = "min"
	greaterThanValidationTagConstant      = "gt"
)

// Configuration captures the settings of an update run.
type Configuration struct {
	BranchesURL     string        `mapstructure:"branches_url" validate:"required,url"`
	RepositoryURL   string        `mapstructure:"repository_url" validate:"required,git_repository_url"`
	OutputPath      string        `mapstructure:"output_path" validate:"required"`
	PageSize        int           `mapstructure:"page_size" validate:"min=1"`
	UserAgent       string        `mapstructure:"user_agent"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	BranchOrdering  string        `mapstructure:"branch_ordering" validate:"branch_ordering"`
	EnvironmentFile string        `mapstructure:"environment_file"`
}

// DefaultConfiguration provides the values used when nothing is configured.
func DefaultConfiguration() Configuration {
	return Configuration{
		BranchesURL:     DefaultBranchesURL,
		RepositoryURL:   prefetch.DefaultRepositoryURL,
		OutputPath:      DefaultOutputPath,
		PageSize:        githubapi.DefaultPageSize,
		UserAgent:       githubapi.DefaultUserAgent,
		RequestTimeout:  DefaultRequestTimeout,
		BranchOrdering:  branches.OrderingLexicographic,
		EnvironmentFile: DefaultEnvironmentFile,
	}
}

// DefaultConfigurationValues exposes DefaultConfiguration as Viper defaults rooted at configurationPrefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		qualifiedKey(configurationPrefix, branchesURLKeyConstant):     defaults.BranchesURL,
		qualifiedKey(configurationPrefix, repositoryURLKeyConstant):   defaults.RepositoryURL,
		qualifiedKey(configurationPrefix, outputPathKeyConstant):      defaults.OutputPath,
		qualifiedKey(configurationPrefix, pageSizeKeyConstant):        defaults.PageSize,
		qualifiedKey(configurationPrefix, userAgentKeyConstant):       defaults.UserAgent,
		qualifiedKey(configurationPrefix, requestTimeoutKeyConstant):  defaults.RequestTimeout.String(),
		qualifiedKey(configurationPrefix, branchOrderingKeyConstant):  defaults.BranchOrdering,
		qualifiedKey(configurationPrefix, environmentFileKeyConstant): defaults.EnvironmentFile,
	}
}

// Sanitize trims values and expands a leading ~ in file paths.
// A blank branches URL is derived from a github.com repository URL.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.BranchesURL = strings.TrimSpace(configuration.BranchesURL)
	sanitized.RepositoryURL = strings.TrimSpace(configuration.RepositoryURL)
	if len(sanitized.BranchesURL) == 0 {
		sanitized.BranchesURL = deriveBranchesURL(sanitized.RepositoryURL)
	}
	sanitized.OutputPath = sanitizePath(configuration.OutputPath)
	sanitized.UserAgent = strings.TrimSpace(configuration.UserAgent)
	sanitized.BranchOrdering = strings.TrimSpace(configuration.BranchOrdering)
	sanitized.EnvironmentFile = sanitizePath(configuration.EnvironmentFile)
	return sanitized
}

// Validate reports every invalid setting.
func (configuration Configuration) Validate() error {
	configurationValidator, setupError := loadConfigurationValidator()
	if setupError != nil {
		return setupError
	}

	validationError := configurationValidator.Struct(configuration)
	if validationError == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(validationError, &fieldErrors) {
		return validationError
	}

	describedErrors := make([]error, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		describedErrors = append(describedErrors, describeFieldError(fieldError))
	}
	return errors.Join(describedErrors...)
}

func deriveBranchesURL(repositoryURL string) string {
	location, parseError := gitrepo.ParseRepositoryURL(repositoryURL)
	if parseError != nil {
		return ""
	}
	branchesURL, derivationError := gitrepo.BranchesAPIURL(location)
	if derivationError != nil {
		return ""
	}
	return branchesURL
}

func sanitizePath(path string) string {
	trimmedPath := strings.TrimSpace(path)
	if len(trimmedPath) == 0 {
		return ""
	}
	return updaterConfigurationHomeDirectoryExpander.Expand(trimmedPath)
}

func qualifiedKey(configurationPrefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(configurationPrefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}
