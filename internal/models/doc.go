// Package models defines the provider-agnostic data model for artist lineups.
//
// Every provider adapter converts its own response shapes into [Artist] and [Track] values.
// A [Lineup] always holds exactly [LineupSize] slots; empty slots hold the [Placeholder] artist.
// A [LineupSet] carries one lineup per [TimeWindow].
//
// Display names pass through [DisplayName] and [ApplyImageOverride] before they reach a lineup,
// so two raw entries that normalize to the same name collapse into one slot.
package models
