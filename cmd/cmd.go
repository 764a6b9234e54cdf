// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

// sessionFlags identify the provider and the listener.
func sessionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage:   "Music provider: spotify, applemusic, lastfm or scratch (default from config)",
		},
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "Provider access token (Spotify) or music user token (Apple Music)",
		},
		&cli.StringFlag{
			Name:    "user",
			Aliases: []string{"u"},
			Usage:   "Last.fm username",
		},
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "Display name used in the lineup title",
		},
	}
}

func windowFlag(value string) cli.Flag {
	return &cli.StringFlag{
		Name:    "window",
		Aliases: []string{"w"},
		Usage:   "Time range: all-time, six-months or last-month",
		Value:   value,
	}
}

// showCommand prints the lineups for every time range
func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "show",
		Aliases: []string{"ls"},
		Usage:   "Show your top artist lineups",
		Flags: append(sessionFlags(),
			windowFlag(""),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown, csv or json",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
		),
		Action: r.Show,
	}
}

// searchCommand searches the provider catalog
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search for artists",
		ArgsUsage: "<query>",
		Flags: append(sessionFlags(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of results (0 uses the provider default)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		),
		Action: r.Search,
	}
}

// playlistCommand saves a lineup as a playlist
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Create a shuffled playlist from a lineup",
		Flags: append(sessionFlags(),
			windowFlag("all-time"),
			&cli.StringSliceFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Build the lineup from these artist names instead of your top artists (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		),
		Action: r.Playlist,
	}
}

// editCommand launches the interactive lineup editor
func editCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "edit",
		Aliases: []string{"tui"},
		Usage:   "Edit your lineup interactively and save it as a playlist",
		Flags: append(sessionFlags(),
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log destination while the editor owns the terminal",
				Value: "./tmp/lineup-tui.log",
			},
		),
		Action: r.TUI,
	}
}

// authCommand handles provider sign-in
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in to a provider",
		Commands: []*cli.Command{
			{
				Name:  "spotify",
				Usage: "Authorize with Spotify using OAuth2 in the browser",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser callback",
						Value: 2 * time.Minute,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save the access token to the config file",
					},
				},
				Action: r.AuthSpotify,
			},
			{
				Name:      "lastfm",
				Usage:     "Check that a Last.fm username exists",
				ArgsUsage: "<username>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save the username to the config file",
					},
				},
				Action: r.AuthLastFM,
			},
		},
	}
}

// configCommand manages the config file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write an example config file",
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Show the active configuration with secrets hidden",
				Action: r.ConfigShow,
			},
		},
	}
}
