package githubauth_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/zfs-updater/internal/githubauth"
)

const (
	tokenSubtestNameTemplateConstant = "%d_%s"
	testEnvironmentFileNameConstant  = ".env"
)

func TestResolveTokenWithLookup(testInstance *testing.T) {
	testCases := []struct {
		name               string
		environment        map[string]string
		processEnvironment map[string]string
		expectedToken      string
		expectedFound      bool
	}{
		{
			name:          "anonymous_when_nothing_set",
			expectedFound: false,
		},
		{
			name:               "github_token_preferred",
			processEnvironment: map[string]string{githubauth.EnvGitHubCLIToken: "cli", githubauth.EnvGitHubToken: "primary"},
			expectedToken:      "primary",
			expectedFound:      true,
		},
		{
			name:               "falls_back_to_cli_token",
			processEnvironment: map[string]string{githubauth.EnvGitHubCLIToken: "cli", githubauth.EnvGitHubAPIToken: "api"},
			expectedToken:      "cli",
			expectedFound:      true,
		},
		{
			name:               "explicit_map_wins_over_process",
			environment:        map[string]string{githubauth.EnvGitHubAPIToken: "from-file"},
			processEnvironment: map[string]string{githubauth.EnvGitHubToken: "from-process"},
			expectedToken:      "from-file",
			expectedFound:      true,
		},
		{
			name:               "blank_values_ignored",
			environment:        map[string]string{githubauth.EnvGitHubToken: "   "},
			processEnvironment: map[string]string{githubauth.EnvGitHubToken: "\t"},
			expectedFound:      false,
		},
		{
			name:          "values_trimmed",
			environment:   map[string]string{githubauth.EnvGitHubToken: "  secret\n"},
			expectedToken: "secret",
			expectedFound: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(tokenSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			lookup := func(key string) (string, bool) {
				value, exists := testCase.processEnvironment[key]
				return value, exists
			}

			token, found := githubauth.ResolveTokenWithLookup(testCase.environment, lookup)
			require.Equal(testInstance, testCase.expectedFound, found)
			require.Equal(testInstance, testCase.expectedToken, token)
		})
	}
}

func TestResolveTokenReadsProcessEnvironment(testInstance *testing.T) {
	testInstance.Setenv(githubauth.EnvGitHubToken, "process-token")
	testInstance.Setenv(githubauth.EnvGitHubCLIToken, "")
	testInstance.Setenv(githubauth.EnvGitHubAPIToken, "")

	token, found := githubauth.ResolveToken(nil)
	require.True(testInstance, found)
	require.Equal(testInstance, "process-token", token)
}

func TestLoadEnvironmentFile(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	environmentFilePath := filepath.Join(temporaryDirectory, testEnvironmentFileNameConstant)
	require.NoError(testInstance, os.WriteFile(environmentFilePath, []byte("# credentials\nGITHUB_TOKEN=file-token\nOTHER=value\n"), 0o600))

	environment, loadError := githubauth.LoadEnvironmentFile(environmentFilePath)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "file-token", environment[githubauth.EnvGitHubToken])
	require.Equal(testInstance, "value", environment["OTHER"])

	token, found := githubauth.ResolveTokenWithLookup(environment, nil)
	require.True(testInstance, found)
	require.Equal(testInstance, "file-token", token)
}

func TestLoadEnvironmentFileMissingIsEmpty(testInstance *testing.T) {
	missingPath := filepath.Join(testInstance.TempDir(), testEnvironmentFileNameConstant)

	environment, loadError := githubauth.LoadEnvironmentFile(missingPath)
	require.NoError(testInstance, loadError)
	require.Empty(testInstance, environment)

	blankEnvironment, blankError := githubauth.LoadEnvironmentFile("  ")
	require.NoError(testInstance, blankError)
	require.Empty(testInstance, blankEnvironment)
}

func TestLoadEnvironmentFileRejectsDirectory(testInstance *testing.T) {
	_, loadError := githubauth.LoadEnvironmentFile(testInstance.TempDir())
	require.Error(testInstance, loadError)
}
