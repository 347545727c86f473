// Package tui detects whether a human is at the terminal and renders
// run summaries and listings with lipgloss when one is.
package tui
