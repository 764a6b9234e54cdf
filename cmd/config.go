package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/lineup/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the example config to the --config path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("creating config file from template", "path", r.configPath)
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}
	r.writePlain("✓ Config written to %s\n", r.configPath)
	return r.writePlain("Fill in your provider credentials, then run: lineup auth spotify\n")
}

// ConfigShow prints the active configuration. Secrets are reported as set or unset.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	c := r.config
	secret := func(v string) string {
		if v == "" {
			return "(unset)"
		}
		return "(set)"
	}

	r.writePlainHeader(fmt.Sprintf("Config: %s", r.configPath))
	r.writePlain("Provider: %s\n", c.Provider.Default)
	r.writePlain("Display name: %s\n", c.Provider.DisplayName)
	r.writePlain("HTTP: timeout %s, %.1f req/s, burst %d\n", c.HTTP.Timeout(), c.HTTP.RateLimit, c.HTTP.Burst)
	r.writePlain("Callback server: %s\n\n", c.Server.Addr())

	r.writePlain("Spotify: client %s, token %s\n", secret(c.Credentials.Spotify.ClientSecret), secret(c.Credentials.Spotify.AccessToken))
	r.writePlain("Apple Music: developer token %s, user token %s, storefront %s\n",
		secret(c.Credentials.AppleMusic.DeveloperToken), secret(c.Credentials.AppleMusic.UserToken), c.Credentials.AppleMusic.Storefront)
	r.writePlain("Last.fm: api key %s, user %q\n", secret(c.Credentials.LastFM.APIKey), c.Credentials.LastFM.Username)
	r.writePlain("Deezer: %s, rapidapi key %s\n", c.Credentials.Deezer.BaseURL, secret(c.Credentials.Deezer.RapidAPIKey))
	return nil
}
