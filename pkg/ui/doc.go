// Package ui prints the operator-facing console output of a run: phase
// banners, the per-download percentage line, warnings and the closing summary.
// It also sends an optional desktop notification when a run ends.
package ui
