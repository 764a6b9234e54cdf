// Package ui implements the interactive lineup editor using bubbletea's Elm architecture.
//
// The TUI moves through these views:
//  1. [LoadingView] : Aggregate the three time-window lineups
//  2. [LineupView] : Browse slots, select, swap and remove artists, switch time range
//  3. [SearchView] : Fill an empty slot from provider search results
//  4. [ConfirmView] : Confirm playlist creation
//  5. [SavingView] : Monitor real-time progress updates
//  6. [ResultView] : Show the created playlist or a retry prompt
//
// The [Model] implements bubbletea's Init/Update/View pattern, receiving messages via the Msg union type.
// All edits go through [editor.Session], which is only touched inside Update. Network work runs in tea.Cmds
// and comes back as messages.
//
// Keyboard navigation uses vim-style bindings (h/l, enter, d, tab, s, y/n, q) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
