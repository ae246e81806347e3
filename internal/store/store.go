// Package store persists profiles and the active profile selection.
package store

import (
	"context"
	"errors"

	"github.com/mj1618/weel/internal/model"
)

var (
	// ErrNotFound is returned when a profile does not exist.
	ErrNotFound = errors.New("profile not found")
	// ErrAlreadyExists is returned when creating a profile with a taken id.
	ErrAlreadyExists = errors.New("profile already exists")
	// ErrLastProfile is returned when deleting the only profile.
	ErrLastProfile = errors.New("cannot delete the last profile")
)

// ProfileStore defines profile persistence.
type ProfileStore interface {
	// ListProfiles returns all profiles in creation order.
	ListProfiles(ctx context.Context) ([]model.Profile, error)
	// GetProfile retrieves a profile by its ID.
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	// CreateProfile adds a new profile.
	CreateProfile(ctx context.Context, p *model.Profile) error
	// UpdateProfile replaces an existing profile.
	UpdateProfile(ctx context.Context, p *model.Profile) error
	// DeleteProfile removes a profile by its ID.
	DeleteProfile(ctx context.Context, id string) error
	// CurrentProfileID returns the id of the active profile.
	CurrentProfileID(ctx context.Context) (string, error)
	// SetCurrentProfileID selects the active profile.
	SetCurrentProfileID(ctx context.Context, id string) error
	// Close persists pending changes.
	Close() error
}
