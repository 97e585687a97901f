// Package gitrepo interprets git repository URLs and maps GitHub repositories to their REST endpoints.
package gitrepo
