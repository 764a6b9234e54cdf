package tasks

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineup/internal/models"
	"github.com/desertthunder/lineup/internal/services"
	"github.com/desertthunder/lineup/internal/shared"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 5

// Engine defines the lineup operations exposed to the CLI and UI.
type Engine interface {
	// Aggregate fetches one lineup per time window. It never fails: windows whose fetch fails are all placeholders.
	Aggregate(ctx context.Context, svc services.Service, cred models.Credential, progress chan<- ProgressUpdate) models.LineupSet

	// Synthesize turns artists into a shuffled playlist on the provider.
	Synthesize(ctx context.Context, svc services.Service, cred models.Credential, artists []models.Artist, displayName string, progress chan<- ProgressUpdate) (*models.Playlist, error)
}

// LineupEngine implements [Engine].
type LineupEngine struct {
	logger         *log.Logger
	trackLimit     int
	maxConcurrency int
	shuffle        func(n int, swap func(i, j int))
}

// NewLineupEngine creates an engine that logs degraded failures to logger.
func NewLineupEngine(logger *log.Logger) *LineupEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &LineupEngine{
		logger:         logger,
		trackLimit:     services.TrackLimit,
		maxConcurrency: defaultConcurrency,
		shuffle:        rand.Shuffle,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *LineupEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Aggregate fetches the three windows concurrently, then dedupes and pads each result.
//
// Providers implementing [services.WindowlessService] are fetched once and the result is shared by every window.
func (e *LineupEngine) Aggregate(ctx context.Context, svc services.Service, cred models.Credential, progress chan<- ProgressUpdate) models.LineupSet {
	if svc == nil {
		return models.EmptyLineupSet()
	}

	logger := shared.WithLogger(e.logger, "provider", svc.Name())
	total := len(models.TimeWindows)
	raw := make([][]models.Artist, total)

	e.sendProgress(progress, fetchingLineupsUpdate(total, svc.Name()))

	if ws, ok := svc.(services.WindowlessService); ok {
		artists, err := ws.FetchRecentArtists(ctx, cred)
		if err != nil {
			logger.Warn("failed to fetch recent artists", "err", err)
			artists = nil
		}
		for i := range raw {
			raw[i] = artists
		}
		e.sendProgress(progress, fetchedWindowUpdate(total, total, models.AllTime, len(artists)))
	} else {
		var done atomic.Int32
		var g errgroup.Group
		for i, w := range models.TimeWindows {
			g.Go(func() error {
				artists, err := svc.FetchTopArtists(ctx, cred, w)
				if err != nil {
					logger.Warn("failed to fetch top artists", "window", w, "err", err)
					artists = nil
				}
				raw[i] = artists
				e.sendProgress(progress, fetchedWindowUpdate(int(done.Add(1)), total, w, len(artists)))
				return nil
			})
		}
		_ = g.Wait()
	}

	var set models.LineupSet
	for i := range set {
		set[i] = models.NewLineup(raw[i])
	}
	return set
}

// Synthesize resolves each artist to up to [services.TrackLimit] tracks, shuffles the flattened list
// and creates one playlist named after displayName.
//
// artists must already exclude placeholders. A failed track fetch contributes no tracks.
// A failed creation returns a nil playlist and an error wrapping [shared.ErrPlaylistCreate]; it is not retried.
func (e *LineupEngine) Synthesize(
	ctx context.Context,
	svc services.Service,
	cred models.Credential,
	artists []models.Artist,
	displayName string,
	progress chan<- ProgressUpdate,
) (*models.Playlist, error) {
	if svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	ps, ok := svc.(services.PlaylistService)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotSupported, svc.Name())
	}

	logger := shared.WithLogger(e.logger, "provider", svc.Name())
	perArtist := make([][]models.Track, len(artists))

	var done atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrency)
	for i, artist := range artists {
		g.Go(func() error {
			tracks, err := ps.ArtistTracks(gctx, cred, artist, e.trackLimit)
			if err != nil {
				logger.Warn("failed to fetch tracks", "artist", artist.Name, "err", err)
				tracks = nil
			}
			if len(tracks) > e.trackLimit {
				tracks = tracks[:e.trackLimit]
			}
			perArtist[i] = tracks
			e.sendProgress(progress, fetchedTracksUpdate(int(done.Add(1)), len(artists), artist.Name, len(tracks)))
			return nil
		})
	}
	_ = g.Wait()

	tracks := make([]models.Track, 0, len(artists)*e.trackLimit)
	for _, t := range perArtist {
		tracks = append(tracks, t...)
	}
	e.shuffle(len(tracks), func(i, j int) { tracks[i], tracks[j] = tracks[j], tracks[i] })

	name := models.PlaylistName(displayName)
	e.sendProgress(progress, creatingPlaylistUpdate(name, len(tracks)))

	id, err := ps.CreatePlaylist(ctx, cred, name, tracks)
	if err != nil {
		logger.Error("failed to create playlist", "name", name, "err", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistCreate, err)
	}

	pl := &models.Playlist{ID: id, Name: name, URL: ps.PlaylistURL(id), Tracks: tracks}
	e.sendProgress(progress, createdPlaylistUpdate(pl))
	return pl, nil
}

var _ Engine = (*LineupEngine)(nil)
