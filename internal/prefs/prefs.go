// Package prefs persists user preferences that outlive a single run,
// currently the release the user asked not to be notified about again.
package prefs

import (
	"context"
	"fmt"

	"github.com/DohaRamadan/jabref/internal/config"
	"github.com/DohaRamadan/jabref/internal/update"
)

// KeyIgnoredVersion is the preference key holding the ignored release.
const KeyIgnoredVersion = "version-check.ignored-version"

// Store reads and writes preferences. Stores satisfy update.Preferences.
type Store interface {
	update.Preferences
	ClearIgnoredVersion() error
	Close() error
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// Open returns the store for backend at path. Backends are config.BackendFile
// and config.BackendSQLite.
func Open(ctx context.Context, backend, path string) (Store, error) {
	switch backend {
	case config.BackendFile, "":
		return NewFileStore(path), nil
	case config.BackendSQLite:
		return OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown preferences backend %q", backend)
	}
}

// OpenConfigured opens the store selected by the current configuration.
func OpenConfigured(ctx context.Context) (Store, error) {
	path, err := config.PreferencesPath()
	if err != nil {
		return nil, err
	}
	return Open(ctx, config.PreferencesBackend(), path)
}

func parseStored(raw string) (update.Version, bool, error) {
	if raw == "" {
		return update.Version{}, false, nil
	}
	v, err := update.ParseVersion(raw)
	if err != nil {
		return update.Version{}, false, err
	}
	return v, true, nil
}
