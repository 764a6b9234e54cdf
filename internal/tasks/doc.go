// Package tasks builds lineups and playlists from a provider with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines two operations:
//
//  1. [Engine.Aggregate] : Three lineups, one per time window
//     - Fetches each window concurrently from the provider
//     - Failed windows degrade to all placeholders
//     - Results are truncated, deduped by name and padded to five slots
//
//  2. [Engine.Synthesize] : Lineup to playlist
//     - Fetches up to ten tracks per artist concurrently
//     - Shuffles the flattened track list
//     - Creates one playlist named after the lineup owner
//
// # Progress Reporting
//
// Both operations accept an optional channel for [ProgressUpdate] values.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [LineupEngine] implements [Engine] on top of [services.Service]. Providers without per-window
// history implement [services.WindowlessService] and share one fetch across all windows.
package tasks
