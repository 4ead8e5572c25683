package securestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/AnshRaj112/saferplace/pkg/utils"
)

// FileStore keeps sealed values in a single JSON file. The file is re-read
// on every call so the gateway and saferctl observe each other's writes.
type FileStore struct {
	path   string
	cipher *utils.Cipher
	mu     sync.Mutex
}

func NewFileStore(path string, c *utils.Cipher) *FileStore {
	return &FileStore{path: path, cipher: c}
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return "", err
	}
	sealed, ok := entries[key]
	if !ok {
		return "", ErrNotFound
	}
	value, err := s.cipher.Decrypt(sealed, key)
	if err != nil {
		return "", fmt.Errorf("securestore: decrypt %s: %w", key, err)
	}
	return value, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	sealed, err := s.cipher.Encrypt(value, key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	entries[key] = sealed
	return s.save(entries)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return s.save(entries)
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("securestore: corrupt store file: %w", err)
	}
	return entries, nil
}

// save writes through a temp file and rename so a crash never leaves a
// half-written store behind.
func (s *FileStore) save(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".securestore-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
