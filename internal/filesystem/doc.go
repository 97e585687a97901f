// Package filesystem provides the operating system backed file operations injected into writers.
package filesystem
