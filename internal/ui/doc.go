// Package ui holds the console confirmations for destructive store
// operations: an interactive prompt and the --force countdown.
package ui
