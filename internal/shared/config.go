package shared

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Provider    ProviderConfig    `toml:"provider"`
	HTTP        HTTPConfig        `toml:"http"`
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
}

// ProviderConfig selects the provider used when no --provider flag is given.
type ProviderConfig struct {
	Default     string `toml:"default"`
	DisplayName string `toml:"display_name"`
}

// HTTPConfig holds transport settings shared by every provider adapter.
type HTTPConfig struct {
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RateLimit      float64 `toml:"rate_limit"`
	Burst          int     `toml:"burst"`
}

// Timeout returns the per-request timeout, defaulting to 10s.
func (h HTTPConfig) Timeout() time.Duration {
	if h.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// CredentialsConfig contains provider-specific credentials.
type CredentialsConfig struct {
	Spotify    SpotifyConfig    `toml:"spotify"`
	AppleMusic AppleMusicConfig `toml:"applemusic"`
	LastFM     LastFMConfig     `toml:"lastfm"`
	Deezer     DeezerConfig     `toml:"deezer"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	AccessToken  string `toml:"access_token"`
	UserID       string `toml:"user_id"`
}

// Map returns the credentials in the form [services.NewSpotifyService] expects.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
	}
}

// AppleMusicConfig contains the MusicKit developer token and an optional pre-authorized user token.
type AppleMusicConfig struct {
	DeveloperToken string `toml:"developer_token"`
	UserToken      string `toml:"user_token"`
	Storefront     string `toml:"storefront"`
}

// LastFMConfig contains the Last.fm API key and default username.
type LastFMConfig struct {
	APIKey   string `toml:"api_key"`
	Username string `toml:"username"`
}

// DeezerConfig points the scratch provider at Deezer, directly or through RapidAPI.
type DeezerConfig struct {
	BaseURL      string `toml:"base_url"`
	RapidAPIKey  string `toml:"rapidapi_key"`
	RapidAPIHost string `toml:"rapidapi_host"`
}

// ServerConfig contains the OAuth callback server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port for [http.Server].
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// LoadOrDefault loads path when it exists and falls back to [DefaultConfig] otherwise.
func LoadOrDefault(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if errors.Is(err, ErrMissingConfig) {
		return DefaultConfig(), nil
	}
	return config, err
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes config as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Environment variables that override token fields.
const (
	EnvSpotifyToken    = "LINEUP_SPOTIFY_TOKEN"
	EnvAppleDevToken   = "LINEUP_APPLE_DEVELOPER_TOKEN"
	EnvAppleUserToken  = "LINEUP_APPLE_USER_TOKEN"
	EnvLastFMKey       = "LINEUP_LASTFM_API_KEY"
	EnvLastFMUser      = "LINEUP_LASTFM_USER"
	EnvRapidAPIKey     = "LINEUP_RAPIDAPI_KEY"
	EnvDefaultProvider = "LINEUP_PROVIDER"
	EnvDisplayName     = "LINEUP_DISPLAY_NAME"
)

// LoadEnv reads dotenv files into the process environment. Missing files are skipped.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides token fields with any LINEUP_* variables that are set.
func (c *Config) ApplyEnv() {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	override(&c.Credentials.Spotify.AccessToken, EnvSpotifyToken)
	override(&c.Credentials.AppleMusic.DeveloperToken, EnvAppleDevToken)
	override(&c.Credentials.AppleMusic.UserToken, EnvAppleUserToken)
	override(&c.Credentials.LastFM.APIKey, EnvLastFMKey)
	override(&c.Credentials.LastFM.Username, EnvLastFMUser)
	override(&c.Credentials.Deezer.RapidAPIKey, EnvRapidAPIKey)
	override(&c.Provider.Default, EnvDefaultProvider)
	override(&c.Provider.DisplayName, EnvDisplayName)
}
