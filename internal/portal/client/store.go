// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/taibuivan/pwdregistry/internal/identity"
)

// StoredSession is the persisted sign-in state.
type StoredSession struct {
	AccessToken  string            `yaml:"access_token"`
	RefreshToken string            `yaml:"refresh_token"`
	ExpiresAt    time.Time         `yaml:"expires_at"`
	Identity     identity.Identity `yaml:"identity"`
}

// Store persists the session between invocations.
type Store interface {
	// Load returns the stored session, or nil when there is none.
	Load() (*StoredSession, error)
	Save(session *StoredSession) error
	Clear() error
}

// FileStore keeps the session in a YAML file readable only by its owner.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on the
// first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the session file location.
func (store *FileStore) Path() string {
	return store.path
}

func (store *FileStore) Load() (*StoredSession, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	data, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("session_store_read_failed: %w", err)
	}

	var session StoredSession
	if err := yaml.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("session_store_decode_failed: %w", err)
	}
	if session.AccessToken == "" && session.RefreshToken == "" {
		return nil, nil
	}
	return &session, nil
}

func (store *FileStore) Save(session *StoredSession) error {
	if session == nil {
		return store.Clear()
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	data, err := yaml.Marshal(session)
	if err != nil {
		return fmt.Errorf("session_store_encode_failed: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(store.path), 0o700); err != nil {
		return fmt.Errorf("session_store_mkdir_failed: %w", err)
	}

	// Write then rename so a crash never leaves a truncated file.
	tmp := store.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session_store_write_failed: %w", err)
	}
	if err := os.Rename(tmp, store.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("session_store_write_failed: %w", err)
	}
	return nil
}

func (store *FileStore) Clear() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := os.Remove(store.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session_store_clear_failed: %w", err)
	}
	return nil
}
