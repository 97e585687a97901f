// Package prefetch resolves a branch reference into the source metadata produced by nix-prefetch-git.
package prefetch
