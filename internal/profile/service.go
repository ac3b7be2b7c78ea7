package profile

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/pkg/validator"
)

var (
	// ErrBuiltinPreset indicates an attempt to overwrite or delete one of the
	// built-in presets.
	ErrBuiltinPreset = errors.New("preset is built in")

	// ErrPresetNotFound indicates the named preset does not exist.
	ErrPresetNotFound = errors.New("preset not found")

	// ErrNoSource indicates the profile has no funding source configured yet.
	ErrNoSource = errors.New("no funding source configured")
)

// Window bounds, in hours.
const (
	minWindowHours = 1.0
	maxWindowHours = 168.0
)

// Service manages the settings of one named profile.
type Service interface {
	// Current returns the profile's settings with defaults filled in.
	Current(ctx context.Context) (Settings, error)

	// SetSource sets the funding source. The value may be a preset name or a
	// raw address; the resolved address is stored and returned.
	SetSource(ctx context.Context, value string) (string, error)

	// SetMinAmount sets the minimum funding amount, in SOL.
	SetMinAmount(ctx context.Context, minSOL float64) error

	// SetWindow sets the scan window, in hours. Accepted range: 1 to 168.
	SetWindow(ctx context.Context, hours float64) error

	// ResolveSource maps a preset name to its address, or validates and
	// returns the value as an address.
	ResolveSource(ctx context.Context, value string) (string, error)

	// AddPreset stores a user-defined preset. Built-in names are reserved.
	AddPreset(ctx context.Context, name, address string) error

	// DeletePreset removes a user-defined preset.
	DeletePreset(ctx context.Context, name string) error

	// ListPresets returns the built-in and user-defined presets merged, name
	// to address.
	ListPresets(ctx context.Context) (map[string]string, error)
}

type service struct {
	storage Storage
	name    string
}

var _ Service = (*service)(nil)

// New creates a profile Service operating on the named profile.
func New(storage Storage, name string) *service {
	if name == "" {
		name = DefaultProfile
	}

	return &service{
		storage: storage,
		name:    name,
	}
}

func withDefaults(s Settings) Settings {
	if s.MinSOL <= 0 {
		s.MinSOL = DefaultMinSOL
	}
	if s.WindowHours <= 0 {
		s.WindowHours = DefaultWindowHours
	}
	return s
}

func (s *service) Current(ctx context.Context) (Settings, error) {
	settings, _, err := s.storage.GetSettings(ctx, s.name)
	if err != nil {
		return Settings{}, fmt.Errorf("loading profile %s: %w", s.name, err)
	}

	return withDefaults(settings), nil
}

func (s *service) update(ctx context.Context, mutate func(*Settings)) error {
	settings, err := s.Current(ctx)
	if err != nil {
		return err
	}

	mutate(&settings)

	if err := s.storage.PutSettings(ctx, s.name, settings); err != nil {
		return fmt.Errorf("saving profile %s: %w", s.name, err)
	}

	return nil
}

func (s *service) SetSource(ctx context.Context, value string) (string, error) {
	address, err := s.ResolveSource(ctx, value)
	if err != nil {
		return "", err
	}

	err = s.update(ctx, func(settings *Settings) {
		settings.Source = address
	})
	return address, err
}

func (s *service) SetMinAmount(ctx context.Context, minSOL float64) error {
	if minSOL <= 0 {
		return fmt.Errorf("minimum amount must be positive, got %v", minSOL)
	}

	return s.update(ctx, func(settings *Settings) {
		settings.MinSOL = minSOL
	})
}

func (s *service) SetWindow(ctx context.Context, hours float64) error {
	if hours < minWindowHours || hours > maxWindowHours {
		return fmt.Errorf("window must be between %v and %v hours, got %v", minWindowHours, maxWindowHours, hours)
	}

	return s.update(ctx, func(settings *Settings) {
		settings.WindowHours = hours
	})
}

func (s *service) ResolveSource(ctx context.Context, value string) (string, error) {
	if addr, ok := builtinPresets[value]; ok {
		return addr, nil
	}

	presets, err := s.storage.GetPresets(ctx)
	if err != nil {
		return "", fmt.Errorf("loading presets: %w", err)
	}
	if addr, ok := presets[value]; ok {
		return addr, nil
	}

	if !validator.IsSolanaAddress(value) {
		return "", fmt.Errorf("%q is neither a preset nor a valid address", value)
	}

	return value, nil
}

type presetEntry struct {
	Name    string `validate:"required,preset_name"`
	Address string `validate:"required,solana_address"`
}

func (s *service) AddPreset(ctx context.Context, name, address string) error {
	if err := validator.Validate(presetEntry{Name: name, Address: address}); err != nil {
		return err
	}

	if _, ok := builtinPresets[name]; ok {
		return fmt.Errorf("%w: %s", ErrBuiltinPreset, name)
	}

	return s.storage.PutPreset(ctx, name, address)
}

func (s *service) DeletePreset(ctx context.Context, name string) error {
	if _, ok := builtinPresets[name]; ok {
		return fmt.Errorf("%w: %s", ErrBuiltinPreset, name)
	}

	ok, err := s.storage.DeletePreset(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}

	return nil
}

func (s *service) ListPresets(ctx context.Context) (map[string]string, error) {
	user, err := s.storage.GetPresets(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading presets: %w", err)
	}

	out := make(map[string]string, len(builtinPresets)+len(user))
	maps.Copy(out, builtinPresets)
	maps.Copy(out, user)
	return out, nil
}
