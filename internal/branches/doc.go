// Package branches selects the newest CachyOS maintenance branch.
//
// Selector filters branch names against the zfs-<major>.<minor>.<patch>-cachyos
// convention and returns the greatest match under a named Ordering. The default
// ordering is plain lexicographic string comparison, so "zfs-2.2.2-cachyos"
// outranks "zfs-2.2.10-cachyos".
package branches
