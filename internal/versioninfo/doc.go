// Package versioninfo builds and persists the version.json document consumed by the ZFS CachyOS package build.
package versioninfo
