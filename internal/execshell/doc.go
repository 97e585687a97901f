// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and lifecycle
// notifications, OSCommandRunner runs processes through os/exec, and
// CommandMessageFormatter renders the human-readable progress lines shown
// while nix-prefetch-git runs.
package execshell
