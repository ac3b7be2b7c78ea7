// Package profile manages named scan profiles: the funding source, minimum
// amount and time window a scan runs with, plus the preset book that maps
// short names to well-known funding addresses.
package profile

import "context"

// DefaultProfile is the profile used when no name is given.
const DefaultProfile = "default"

// Settings are the scan criteria stored per profile. MinSOL and WindowHours
// are kept in user-facing units; conversion to lamports and durations happens
// at the scan boundary.
type Settings struct {
	Source      string  `json:"source,omitempty"`
	MinSOL      float64 `json:"minSol,omitempty"`
	WindowHours float64 `json:"timeHours,omitempty"`
}

// Defaults applied when a profile leaves a field unset.
const (
	DefaultMinSOL      = 50.0
	DefaultWindowHours = 5.0
)

// builtinPresets are always available and cannot be removed.
var builtinPresets = map[string]string{
	"kucoin":  "BmFdpraQhkiDQE6SnfG5omcA1VwzqfXrwtNYBwWTymy6",
	"binance": "5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9",
}

// Storage persists profile settings and user-defined presets.
type Storage interface {
	// GetSettings returns the stored settings for the named profile,
	// reporting whether the profile exists.
	GetSettings(ctx context.Context, name string) (Settings, bool, error)

	// PutSettings stores the settings for the named profile.
	PutSettings(ctx context.Context, name string, settings Settings) error

	// GetPresets returns all user-defined presets, name to address.
	GetPresets(ctx context.Context) (map[string]string, error)

	// PutPreset stores or replaces a user-defined preset.
	PutPreset(ctx context.Context, name, address string) error

	// DeletePreset removes a user-defined preset, reporting whether it
	// existed.
	DeletePreset(ctx context.Context, name string) (bool, error)
}
