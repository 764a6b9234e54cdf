package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/lineup/internal/models"
	"github.com/desertthunder/lineup/internal/server"
	"github.com/desertthunder/lineup/internal/services"
	"github.com/desertthunder/lineup/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthSpotify performs the OAuth2 authorization code flow for Spotify.
//
// Starts a local callback server, opens the browser for user authorization and prints or saves the access token.
func (r *Runner) AuthSpotify(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(models.Spotify)
	if err != nil {
		return err
	}
	spotify, ok := svc.(*services.SpotifyService)
	if !ok {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	oauthConfig, err := spotify.AuthConfig()
	if err != nil {
		return fmt.Errorf("%w: set client_id and client_secret in %s", err, r.configPath)
	}

	state := shared.GenerateID()
	handler := server.NewOAuthHandler(oauthConfig, state)
	callback := server.NewCallbackServer(r.config.Server.Addr(), handler, r.logger)
	if err := callback.Start(); err != nil {
		return err
	}

	authURL := spotify.GetAuthURL(state)
	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := r.openBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	timeout := cmd.Duration("timeout")
	r.writePlain("→ Waiting for authorization (%s timeout)...\n", timeout)

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	token, err := callback.Wait(waitCtx)
	if err != nil {
		return err
	}

	cred := models.Credential{Token: token.AccessToken}
	profile, err := spotify.UserProfile(ctx, cred)
	if err != nil {
		r.logger.Warn("failed to fetch Spotify profile", "err", err)
	}

	r.writePlainln("✓ Authorization successful")
	if profile != nil {
		r.writePlain("Signed in as %s (%s)\n", profile.DisplayName, profile.ID)
	}

	if !cmd.Bool("save") {
		r.writePlain("\nAccess token (expires %s):\n%s\n\n", token.Expiry.Format("15:04"), token.AccessToken)
		r.writePlain("Use it with --token or export %s\n", shared.EnvSpotifyToken)
		return nil
	}

	r.config.Credentials.Spotify.AccessToken = token.AccessToken
	if profile != nil {
		r.config.Credentials.Spotify.UserID = profile.ID
		if r.config.Provider.DisplayName == "" {
			r.config.Provider.DisplayName = profile.DisplayName
		}
	}
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	r.writePlain("✓ Token saved to %s\n\n", r.configPath)
	r.writePlain("You can now use: lineup show\n")
	return nil
}

// AuthLastFM checks that a Last.fm username exists and optionally stores it as the default user.
func (r *Runner) AuthLastFM(ctx context.Context, cmd *cli.Command) error {
	username := cmd.Args().First()
	if username == "" {
		return fmt.Errorf("%w: Last.fm username", shared.ErrMissingArgument)
	}

	svc, err := r.service(models.LastFM)
	if err != nil {
		return err
	}
	lastfm, ok := svc.(*services.LastFMService)
	if !ok {
		return fmt.Errorf("%w: Last.fm service not initialized", shared.ErrServiceUnavailable)
	}

	user, err := lastfm.ValidateUser(ctx, username)
	if err != nil {
		return err
	}

	r.writePlain("✓ Found Last.fm user %s\n", user.Name)
	if user.URL != "" {
		r.writePlain("Profile: %s\n", user.URL)
	}

	if !cmd.Bool("save") {
		return r.writePlain("\nUse it with: lineup show --provider lastfm --user %s\n", user.Name)
	}

	r.config.Credentials.LastFM.Username = user.Name
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return r.writePlain("✓ Username saved to %s\n", r.configPath)
}
