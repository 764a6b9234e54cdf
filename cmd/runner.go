package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineup/internal/models"
	"github.com/desertthunder/lineup/internal/services"
	"github.com/desertthunder/lineup/internal/shared"
	"github.com/desertthunder/lineup/internal/tasks"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	services    map[models.ProviderKind]services.Service
	engine      tasks.Engine
	ownEngine   bool
	logger      *log.Logger
	output      io.Writer
	openBrowser func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Services pre-populates the provider cache. Missing providers are built from Config on first use.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Services    map[models.ProviderKind]services.Service
	Engine      tasks.Engine
	Logger      *log.Logger
	Output      io.Writer
	OpenBrowser func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	ownEngine := opts.Engine == nil
	if ownEngine {
		opts.Engine = tasks.NewLineupEngine(opts.Logger)
	}

	svcs := make(map[models.ProviderKind]services.Service, len(opts.Services))
	for k, v := range opts.Services {
		svcs[k] = v
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		services:    svcs,
		engine:      opts.Engine,
		ownEngine:   ownEngine,
		logger:      opts.Logger,
		output:      opts.Output,
		openBrowser: opts.OpenBrowser,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		showCommand, searchCommand, playlistCommand, editCommand, authCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Setup runs before every command: it loads .env files and the config file, then applies env overrides.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if err := shared.LoadEnv(cmd.String("env-file")); err != nil {
		r.logger.Warn("failed to load env file", "err", err)
	}

	path := cmd.String("config")
	if path == "" {
		path = defaultConfigPath
	}
	r.configPath = path

	config, err := shared.LoadOrDefault(path)
	if err != nil {
		return ctx, err
	}
	config.ApplyEnv()
	r.config = config

	return ctx, nil
}

// SetLogger replaces the logger, rebuilding the engine when the runner owns it.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.ownEngine {
		r.engine = tasks.NewLineupEngine(logger)
	}
}

// provider resolves the --provider flag, falling back to the configured default.
func (r *Runner) provider(cmd *cli.Command) (models.ProviderKind, error) {
	name := cmd.String("provider")
	if name == "" {
		name = r.config.Provider.Default
	}

	kind, err := models.ParseProviderKind(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUnknownProvider, err)
	}
	return kind, nil
}

// service returns the cached adapter for kind, building it from config on first use.
func (r *Runner) service(kind models.ProviderKind) (services.Service, error) {
	if svc, ok := r.services[kind]; ok {
		return svc, nil
	}

	svc, err := services.New(kind, r.config, r.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrServiceUnavailable, kind, err)
	}
	r.services[kind] = svc
	return svc, nil
}

// credential assembles the caller identity from flags and config.
//
// Spotify without a token is an error. Last.fm uses the username as its credential.
func (r *Runner) credential(ctx context.Context, cmd *cli.Command, kind models.ProviderKind, svc services.Service) (models.Credential, error) {
	creds := r.config.Credentials
	cred := models.Credential{
		Token:       cmd.String("token"),
		DisplayName: cmd.String("name"),
	}
	if cred.DisplayName == "" {
		cred.DisplayName = r.config.Provider.DisplayName
	}

	switch kind {
	case models.Spotify:
		if cred.Token == "" {
			cred.Token = creds.Spotify.AccessToken
		}
		if cred.Token == "" {
			return cred, fmt.Errorf("%w: no Spotify token, run `lineup auth spotify` or pass --token", shared.ErrNotAuthenticated)
		}
		cred.UserID = creds.Spotify.UserID

		if sp, ok := svc.(*services.SpotifyService); ok && (cred.DisplayName == "" || cred.UserID == "") {
			if profile, err := sp.UserProfile(ctx, cred); err != nil {
				r.logger.Warn("failed to fetch Spotify profile", "err", err)
			} else {
				cred.UserID = profile.ID
				if cred.DisplayName == "" {
					cred.DisplayName = profile.DisplayName
				}
			}
		}
	case models.AppleMusic:
		if cred.Token == "" {
			cred.Token = creds.AppleMusic.UserToken
		}
	case models.LastFM:
		user := cmd.String("user")
		if user == "" {
			user = creds.LastFM.Username
		}
		if user == "" {
			return cred, fmt.Errorf("%w: pass --user with a Last.fm username", shared.ErrMissingArgument)
		}
		cred.Token = user
		if cred.DisplayName == "" {
			cred.DisplayName = user
		}
	}

	return cred, nil
}

// session resolves provider, adapter and credential in one step.
func (r *Runner) session(ctx context.Context, cmd *cli.Command) (services.Service, models.Credential, error) {
	kind, err := r.provider(cmd)
	if err != nil {
		return nil, models.Credential{}, err
	}

	svc, err := r.service(kind)
	if err != nil {
		return nil, models.Credential{}, err
	}

	cred, err := r.credential(ctx, cmd, kind, svc)
	if err != nil {
		return nil, models.Credential{}, err
	}

	r.logger.Debug("session ready", "provider", svc.Name(), "display_name", cred.DisplayName)
	return svc, cred, nil
}

// printProgress writes updates until ch is closed. The returned channel closes once draining is done.
func (r *Runner) printProgress(ch <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range ch {
			switch update.Phase {
			case tasks.FetchLineups:
				if update.Step == 0 {
					r.writePlain("📥 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.FetchTracks:
				r.writePlain("🎵 %s\n", update.Message)
			case tasks.CreatePlaylist:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()
	return done
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
