// Package tui implements terminal rendering for the memocache CLI.
//
// It provides:
//   - An interactive Bubble Tea browser over cache entries with filtering,
//     sorting, and guarded deletion (BrowseModel)
//   - Lip Gloss styles shared by all rendered output
//   - Output mode detection so styled and interactive rendering degrade to
//     plain text for pipes and NO_COLOR terminals
package tui
