package utils

import (
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength  = 16
	timeCost    = 3
	memoryCost  = 64 * 1024
	parallelism = 2
)

// DeriveKey stretches a passphrase into an AES-256 key using Argon2id
func DeriveKey(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase is empty")
	}
	if len(salt) < saltLength {
		return nil, errors.New("salt must be at least 16 bytes")
	}
	return argon2.IDKey([]byte(passphrase), salt, timeCost, memoryCost, parallelism, KeySize), nil
}

// LoadOrCreateSalt reads the salt stored at path, creating a random one on first use
func LoadOrCreateSalt(path string) ([]byte, error) {
	salt, err := os.ReadFile(path)
	if err == nil {
		if len(salt) < saltLength {
			return nil, errors.New("salt file is truncated")
		}
		return salt, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	salt = make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, salt, 0o600); err != nil {
		return nil, err
	}
	return salt, nil
}
