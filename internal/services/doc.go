// Package services defines the [Service] capability interface for music-data providers and implements it for
// Spotify, Apple Music, Last.fm and Deezer.
//
// # Service Interface
//
// Every provider can fetch top artists for a [models.TimeWindow] and search its catalog for artists.
// Providers that can save playlists also implement [PlaylistService]. Providers with no notion of time
// windows implement [WindowlessService] so that one fetch serves all three windows.
//
// # Transport
//
// All adapters share [APIClient], which waits on a [rate.Limiter] before each request, decodes JSON and
// maps failures onto [shared] sentinels:
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrRateLimited] : HTTP 429 or limiter wait aborted
//   - [shared.ErrDecode] : unexpected body shape
//   - [shared.ErrNotAuthenticated] : credential missing
//
// Bearer tokens are attached by an [oauth2] client derived per request from the session [models.Credential].
//
// # Normalization
//
// Adapters map provider shapes through [models.NormalizeArtist], which shortens known stage names and
// applies image overrides. Spotify sorts each window by popularity before truncation; the others keep
// provider order.
package services
