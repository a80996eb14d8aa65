// Package credstore provides the durable Credential Store implementations.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ballotbox/ballot/internal/core/domain"
	"github.com/ballotbox/ballot/internal/xdg"
)

// FileStore keeps the Credential in a single JSON file. Writes go through a
// temp file in the same directory followed by a rename, so a reader sees
// either the old or the new credential, never a mix.
type FileStore struct {
	path string
	mu   sync.Mutex
	log  zerolog.Logger
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: log.With().Str("component", "credstore").Logger()}
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Save(c domain.Credential) error {
	if !c.Complete() {
		return domain.ErrIncompleteCredential
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := xdg.EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".credential-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp credential: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write credential: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync credential: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close credential: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		cleanup()
		return fmt.Errorf("chmod credential: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replace credential: %w", err)
	}

	s.log.Debug().Object("credential", c).Msg("credential saved")
	return nil
}

func (s *FileStore) Load() (domain.Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("credential unreadable, treating as logged out")
		}
		return domain.Credential{}, false
	}

	var c domain.Credential
	if err := json.Unmarshal(data, &c); err != nil || !c.Complete() {
		s.log.Warn().Err(err).Str("path", s.path).Msg("corrupt credential discarded")
		s.removeLocked()
		return domain.Credential{}, false
	}
	return c, true
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked()
}

func (s *FileStore) removeLocked() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn().Err(err).Str("path", s.path).Msg("failed to remove credential")
		return fmt.Errorf("remove credential: %w", err)
	}
	return nil
}
