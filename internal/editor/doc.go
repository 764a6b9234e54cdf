// Package editor holds the in-memory lineup edit session.
//
// A [Session] owns one active [models.Lineup] and moves between three states:
//
//   - [Idle]: nothing selected
//   - [SlotSelected]: a real artist is selected and the next real slot picked swaps with it
//   - [AwaitingNewArtist]: a placeholder is selected and the search dialog is open
//
// Placeholders never take part in a swap. They are only filled through [Session.Search] and
// [Session.ChooseSearchResult].
//
// Sessions are not safe for concurrent use. Callers that search in the background use
// [Session.Lookup] off the owning goroutine and hand the results back with [Session.ApplyResults].
package editor
