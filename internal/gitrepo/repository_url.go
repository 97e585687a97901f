package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	sshUserDelimiterConstant            = "@"
	sshPathDelimiterConstant            = ":"
	httpsProtocolPrefixConstant         = "https://"
	gitUserPrefixConstant               = "git@"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	gitHubHostConstant                  = "github.com"
	gitHubAPIBaseURLConstant            = "https://api.github.com"
	branchesAPIPathTemplateConstant     = "%s/repos/%s/%s/branches"
	repositoryURLParseTemplateConstant  = "%s: %s"
	requiredValueMessageConstant        = "repository url must be provided"
	invalidRepositoryURLMessageConstant = "invalid repository url"
	unsupportedHostMessageConstant      = "branches endpoint can only be derived for github.com repositories"
)

// RepositoryProtocol enumerates the transports nix-prefetch-git accepts for a repository.
type RepositoryProtocol string

// Supported repository protocols.
const (
	RepositoryProtocolSSH   RepositoryProtocol = RepositoryProtocol("ssh")
	RepositoryProtocolHTTPS RepositoryProtocol = RepositoryProtocol("https")
)

// RepositoryLocation is a parsed git repository URL.
type RepositoryLocation struct {
	Protocol   RepositoryProtocol
	Host       string
	Owner      string
	Repository string
}

// RepositoryURLParseError indicates a repository string could not be interpreted.
type RepositoryURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RepositoryURLParseError) Error() string {
	return fmt.Sprintf(repositoryURLParseTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRepositoryURL converts an https or ssh git URL into a RepositoryLocation.
func ParseRepositoryURL(repositoryURL string) (RepositoryLocation, error) {
	trimmedURL := strings.TrimSpace(repositoryURL)
	if len(trimmedURL) == 0 {
		return RepositoryLocation{}, RepositoryURLParseError{Input: repositoryURL, Message: requiredValueMessageConstant}
	}

	switch {
	case strings.HasPrefix(trimmedURL, sshProtocolPrefixConstant):
		return parseSSHLocation(strings.TrimPrefix(trimmedURL, sshProtocolPrefixConstant))
	case strings.HasPrefix(trimmedURL, gitUserPrefixConstant):
		return parseSSHLocation(trimmedURL)
	case strings.HasPrefix(trimmedURL, httpsProtocolPrefixConstant):
		return parseHTTPSLocation(strings.TrimPrefix(trimmedURL, httpsProtocolPrefixConstant))
	default:
		return RepositoryLocation{}, RepositoryURLParseError{Input: repositoryURL, Message: invalidRepositoryURLMessageConstant}
	}
}

// BranchesAPIURL returns the GitHub REST endpoint listing the branches of location.
func BranchesAPIURL(location RepositoryLocation) (string, error) {
	if !strings.EqualFold(location.Host, gitHubHostConstant) {
		return "", RepositoryURLParseError{Input: location.Host, Message: unsupportedHostMessageConstant}
	}
	return fmt.Sprintf(branchesAPIPathTemplateConstant, gitHubAPIBaseURLConstant, location.Owner, location.Repository), nil
}

func parseSSHLocation(repositoryURL string) (RepositoryLocation, error) {
	userSplitIndex := strings.Index(repositoryURL, sshUserDelimiterConstant)
	if userSplitIndex == -1 {
		return RepositoryLocation{}, RepositoryURLParseError{Input: repositoryURL, Message: invalidRepositoryURLMessageConstant}
	}
	hostAndPath := repositoryURL[userSplitIndex+1:]

	separatorIndex := strings.Index(hostAndPath, sshPathDelimiterConstant)
	if separatorIndex == -1 {
		separatorIndex = strings.Index(hostAndPath, pathSeparatorConstant)
	}
	if separatorIndex <= 0 {
		return RepositoryLocation{}, RepositoryURLParseError{Input: repositoryURL, Message: invalidRepositoryURLMessageConstant}
	}

	owner, repository, splitError := splitOwnerAndRepository(hostAndPath[separatorIndex+1:])
	if splitError != nil {
		return RepositoryLocation{}, splitError
	}
	return RepositoryLocation{Protocol: RepositoryProtocolSSH, Host: hostAndPath[:separatorIndex], Owner: owner, Repository: repository}, nil
}

func parseHTTPSLocation(repositoryURL string) (RepositoryLocation, error) {
	hostSeparatorIndex := strings.Index(repositoryURL, pathSeparatorConstant)
	if hostSeparatorIndex <= 0 {
		return RepositoryLocation{}, RepositoryURLParseError{Input: repositoryURL, Message: invalidRepositoryURLMessageConstant}
	}

	owner, repository, splitError := splitOwnerAndRepository(repositoryURL[hostSeparatorIndex+1:])
	if splitError != nil {
		return RepositoryLocation{}, splitError
	}
	return RepositoryLocation{Protocol: RepositoryProtocolHTTPS, Host: repositoryURL[:hostSeparatorIndex], Owner: owner, Repository: repository}, nil
}

func splitOwnerAndRepository(path string) (string, string, error) {
	segments := strings.Split(strings.TrimSuffix(path, pathSeparatorConstant), pathSeparatorConstant)
	if len(segments) != 2 || len(segments[0]) == 0 {
		return "", "", RepositoryURLParseError{Input: path, Message: invalidRepositoryURLMessageConstant}
	}
	repository := strings.TrimSuffix(segments[1], gitSuffixConstant)
	if len(repository) == 0 {
		return "", "", RepositoryURLParseError{Input: path, Message: invalidRepositoryURLMessageConstant}
	}
	return segments[0], repository, nil
}
