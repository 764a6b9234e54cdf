package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/lineup/internal/shared"
)

// MusicKit supplies Apple Music tokens.
//
// Lifecycle: Configure with the developer token, then Authorize to obtain the user token.
type MusicKit interface {
	Configure(developerToken string) error
	Authorize(ctx context.Context) (string, error)
	DeveloperToken() string
}

// StaticMusicKit is a [MusicKit] whose user token was authorized ahead of time and read from config.
type StaticMusicKit struct {
	mu             sync.RWMutex
	developerToken string
	userToken      string
}

// NewStaticMusicKit creates an unconfigured kit holding userToken.
func NewStaticMusicKit(userToken string) *StaticMusicKit {
	return &StaticMusicKit{userToken: userToken}
}

func (k *StaticMusicKit) Configure(developerToken string) error {
	if developerToken == "" {
		return fmt.Errorf("%w: apple music developer token", shared.ErrMissingCredentials)
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.developerToken = developerToken
	return nil
}

func (k *StaticMusicKit) Authorize(ctx context.Context) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.developerToken == "" {
		return "", fmt.Errorf("%w: musickit not configured", shared.ErrNotAuthenticated)
	}
	if k.userToken == "" {
		return "", fmt.Errorf("%w: apple music user token", shared.ErrMissingCredentials)
	}
	return k.userToken, nil
}

func (k *StaticMusicKit) DeveloperToken() string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.developerToken
}
