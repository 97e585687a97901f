// Package updater runs the ZFS CachyOS version update: it lists the upstream
// branches, selects the newest zfs-x.y.z-cachyos branch, prefetches it with
// nix-prefetch-git, and persists the merged metadata as version.json.
//
// The Service depends only on small interfaces so each stage can be replaced
// in tests, while DefaultServiceResolver wires the GitHub, nix, and file system
// implementations used by the command-line entry point.
package updater
