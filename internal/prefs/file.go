package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	apperrors "github.com/DohaRamadan/jabref/internal/errors"
	"github.com/DohaRamadan/jabref/internal/update"
)

// FileStore keeps preferences in a YAML file. Keys it does not own are
// preserved on write.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the YAML file at path.
// The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: strings.TrimSpace(path)}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// IgnoredVersion returns the persisted ignored release, if any.
func (s *FileStore) IgnoredVersion() (update.Version, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.load()
	if err != nil {
		return update.Version{}, false, apperrors.New(apperrors.CodePreferences, "read preferences", err)
	}
	ver, ok, err := parseStored(strings.TrimSpace(v.GetString(KeyIgnoredVersion)))
	if err != nil {
		return update.Version{}, false, apperrors.New(apperrors.CodePreferences, "read ignored version", err)
	}
	return ver, ok, nil
}

// SetIgnoredVersion persists v as the ignored release.
func (s *FileStore) SetIgnoredVersion(v update.Version) error {
	return s.write(v.String())
}

// ClearIgnoredVersion removes the ignored release.
func (s *FileStore) ClearIgnoredVersion() error {
	return s.write("")
}

// Close is a no-op; every operation opens and closes the file itself.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) write(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.load()
	if err != nil {
		return apperrors.New(apperrors.CodePreferences, "read preferences", err)
	}
	v.Set(KeyIgnoredVersion, value)

	//nolint:gosec // G301: User config directory needs standard permissions
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return apperrors.New(apperrors.CodePreferences, "create preferences directory", err)
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		return apperrors.New(apperrors.CodePreferences, "write preferences", err)
	}
	return nil
}

// load reads the file into a fresh viper instance. A missing file yields
// an empty instance.
func (s *FileStore) load() (*viper.Viper, error) {
	if s.path == "" {
		return nil, fmt.Errorf("preferences path is empty")
	}
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(s.path)

	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return v, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", s.path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("preferences path %s is a directory", s.path)
	}
	if info.Size() == 0 {
		return v, nil
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return v, nil
}
