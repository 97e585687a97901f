// Package ui turns external command lifecycle events into console progress.
//
// Start notifications are printed to the console so users see each
// invocation, while outcomes flow through the structured logger.
package ui
