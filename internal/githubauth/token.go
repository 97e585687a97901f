package githubauth

import (
	"os"
	"strings"
)

// Environment variable names used by GitHub authentication helpers.
const (
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

var tokenPreference = []string{
	EnvGitHubToken,
	EnvGitHubCLIToken,
	EnvGitHubAPIToken,
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// ResolveToken returns the first non-empty GitHub token observed in the provided
// environment map or, failing that, the process environment.
func ResolveToken(environment map[string]string) (string, bool) {
	return ResolveTokenWithLookup(environment, os.LookupEnv)
}

// ResolveTokenWithLookup behaves like ResolveToken but consults environmentLookup instead of the process environment.
func ResolveTokenWithLookup(environment map[string]string, environmentLookup EnvironmentLookup) (string, bool) {
	for _, key := range tokenPreference {
		if value, ok := lookup(environment, key); ok {
			return value, true
		}
	}
	if environmentLookup == nil {
		return "", false
	}
	for _, key := range tokenPreference {
		if value, ok := environmentLookup(key); ok {
			value = strings.TrimSpace(value)
			if len(value) > 0 {
				return value, true
			}
		}
	}
	return "", false
}

func lookup(environment map[string]string, key string) (string, bool) {
	if environment == nil {
		return "", false
	}
	value, exists := environment[key]
	if !exists {
		return "", false
	}
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return "", false
	}
	return value, true
}
