package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/lineup/internal/formatter"
	"github.com/desertthunder/lineup/internal/models"
	"github.com/desertthunder/lineup/internal/services"
	"github.com/desertthunder/lineup/internal/shared"
	"github.com/desertthunder/lineup/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Show aggregates the lineups and prints or saves them in the requested format.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	var windows []models.TimeWindow
	if name := cmd.String("window"); name != "" {
		w, err := models.ParseTimeWindow(name)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		windows = []models.TimeWindow{w}
	}

	svc, cred, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}

	r.logger.Info("fetching lineups", "provider", svc.Name())
	set := r.engine.Aggregate(ctx, svc, cred, nil)

	doc := formatter.Lineups{
		Title:    models.PlaylistName(models.LineupOwner(cred.DisplayName)),
		Provider: svc.Name(),
		Windows:  windows,
		Set:      set,
	}

	if out := cmd.String("output"); out != "" {
		path, err := formatter.WriteExport(doc, format, out)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Lineup saved to %s\n", path)
	}

	data, err := formatter.Render(format, doc)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Search runs a catalog search and lists the matching artists.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	svc, cred, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}

	r.logger.Info("searching artists", "provider", svc.Name(), "query", query)
	artists, err := svc.SearchArtists(ctx, cred, query, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(artists, true)
	}

	if len(artists) == 0 {
		return r.writePlain("No artists found for %q\n", query)
	}

	r.writePlain("Found %d artists for %q:\n\n", len(artists), query)
	for i, a := range artists {
		r.writePlain("%d. %s", i+1, a.Name)
		if a.ID != "" {
			r.writePlain(" (%s)", a.ID)
		}
		r.writePlain("\n")
	}
	return nil
}

// Playlist turns a lineup into a shuffled playlist on the provider.
//
// The lineup is the chosen window's top artists, or the --artist names resolved through search.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	window, err := models.ParseTimeWindow(cmd.String("window"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	svc, cred, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	if _, ok := svc.(services.PlaylistService); !ok {
		return fmt.Errorf("%w: %s cannot create playlists", shared.ErrNotSupported, svc.Name())
	}

	var lineup models.Lineup
	if names := cmd.StringSlice("artist"); len(names) > 0 {
		lineup = models.NewLineup(r.resolveArtists(ctx, svc, cred, names))
	} else {
		lineup = r.engine.Aggregate(ctx, svc, cred, nil).Get(window)
	}

	artists := lineup.Artists()
	r.writePlainHeader(models.PlaylistName(cred.DisplayName))
	for i, a := range artists {
		r.writePlain("%d. %s\n", i+1, a.Name)
	}
	r.writePlain("\n")

	progress := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progress)

	pl, err := r.engine.Synthesize(ctx, svc, cred, artists, cred.DisplayName, progress)
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("something went wrong creating your playlist, please try again: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(pl, true)
	}

	r.writePlainln("✓ Playlist created")
	r.writePlain("Name: %s\n", pl.Name)
	r.writePlain("Tracks: %d\n", len(pl.Tracks))
	if pl.URL != "" {
		r.writePlain("Open: %s\n", pl.URL)
	}
	return nil
}

// resolveArtists maps each name to the provider's first search hit. Names without a hit are skipped.
func (r *Runner) resolveArtists(ctx context.Context, svc services.Service, cred models.Credential, names []string) []models.Artist {
	artists := make([]models.Artist, 0, len(names))
	for _, name := range names {
		if len(artists) == models.LineupSize {
			r.logger.Warn("lineup is full, ignoring artist", "artist", name)
			continue
		}

		found, err := svc.SearchArtists(ctx, cred, name, 1)
		if err != nil || len(found) == 0 {
			r.logger.Warn("artist not found", "artist", name, "err", err)
			continue
		}
		artists = append(artists, found[0])
	}
	return artists
}
