// Package cli constructs the zfs-updater command-line interface, wiring the
// Cobra root command, the layered configuration loader, and structured
// logging around the updater service.
package cli
