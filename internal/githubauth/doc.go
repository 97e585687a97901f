// Package githubauth locates the optional GitHub credential used for API requests.
package githubauth
