package gitrepo_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/zfs-updater/internal/gitrepo"
)

const repositoryURLSubtestNameTemplateConstant = "%d_%s"

func TestParseRepositoryURL(testInstance *testing.T) {
	testCases := []struct {
		name             string
		repositoryURL    string
		expectedLocation gitrepo.RepositoryLocation
		expectError      bool
	}{
		{
			name:             "https_with_git_suffix",
			repositoryURL:    "https://github.com/CachyOS/zfs.git",
			expectedLocation: gitrepo.RepositoryLocation{Protocol: gitrepo.RepositoryProtocolHTTPS, Host: "github.com", Owner: "CachyOS", Repository: "zfs"},
		},
		{
			name:             "https_without_suffix_trailing_slash",
			repositoryURL:    " https://github.com/CachyOS/zfs/ ",
			expectedLocation: gitrepo.RepositoryLocation{Protocol: gitrepo.RepositoryProtocolHTTPS, Host: "github.com", Owner: "CachyOS", Repository: "zfs"},
		},
		{
			name:             "scp_style_ssh",
			repositoryURL:    "git@github.com:CachyOS/zfs.git",
			expectedLocation: gitrepo.RepositoryLocation{Protocol: gitrepo.RepositoryProtocolSSH, Host: "github.com", Owner: "CachyOS", Repository: "zfs"},
		},
		{
			name:             "ssh_scheme",
			repositoryURL:    "ssh://git@example.com/openzfs/zfs.git",
			expectedLocation: gitrepo.RepositoryLocation{Protocol: gitrepo.RepositoryProtocolSSH, Host: "example.com", Owner: "openzfs", Repository: "zfs"},
		},
		{name: "empty", repositoryURL: "  ", expectError: true},
		{name: "unsupported_scheme", repositoryURL: "ftp://github.com/CachyOS/zfs", expectError: true},
		{name: "missing_repository", repositoryURL: "https://github.com/CachyOS", expectError: true},
		{name: "nested_path", repositoryURL: "https://github.com/CachyOS/zfs/tree/master", expectError: true},
		{name: "suffix_only", repositoryURL: "https://github.com/CachyOS/.git", expectError: true},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(repositoryURLSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			location, parseError := gitrepo.ParseRepositoryURL(testCase.repositoryURL)
			if testCase.expectError {
				var repositoryError gitrepo.RepositoryURLParseError
				require.ErrorAs(testInstance, parseError, &repositoryError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedLocation, location)
		})
	}
}

func TestBranchesAPIURL(testInstance *testing.T) {
	location, parseError := gitrepo.ParseRepositoryURL("https://github.com/CachyOS/zfs.git")
	require.NoError(testInstance, parseError)

	branchesURL, derivationError := gitrepo.BranchesAPIURL(location)
	require.NoError(testInstance, derivationError)
	require.Equal(testInstance, "https://api.github.com/repos/CachyOS/zfs/branches", branchesURL)

	_, hostError := gitrepo.BranchesAPIURL(gitrepo.RepositoryLocation{Host: "gitlab.com", Owner: "a", Repository: "b"})
	require.Error(testInstance, hostError)
}
