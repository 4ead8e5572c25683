// Package securestore persists small secrets (auth token, user profile,
// contact mirror) encrypted at rest.
package securestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnshRaj112/saferplace/pkg/utils"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("securestore: key not found")

// Store is an encrypted key-value store. Values are sealed before they leave
// the process.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Options selects and configures a backend.
type Options struct {
	Backend       string // "file" (default) or "redis"
	Path          string // file backend location; the passphrase salt lives next to it
	EncryptionKey string // base64 32-byte key
	Passphrase    string // used when EncryptionKey is empty
	Redis         *redis.Client
}

// Open builds the configured backend.
func Open(opts Options) (Store, error) {
	c, err := cipherFor(opts)
	if err != nil {
		return nil, err
	}

	switch opts.Backend {
	case "", "file":
		if opts.Path == "" {
			return nil, errors.New("securestore: file backend needs a path")
		}
		return NewFileStore(opts.Path, c), nil
	case "redis":
		if opts.Redis == nil {
			return nil, errors.New("securestore: redis backend needs REDIS_URI")
		}
		return NewRedisStore(opts.Redis, c), nil
	default:
		return nil, fmt.Errorf("securestore: unknown backend %q", opts.Backend)
	}
}

func cipherFor(opts Options) (*utils.Cipher, error) {
	if opts.EncryptionKey != "" {
		key, err := utils.ParseEncryptionKey(opts.EncryptionKey)
		if err != nil {
			return nil, err
		}
		return utils.NewCipher(key)
	}
	if opts.Passphrase == "" {
		return nil, errors.New("securestore: set ENCRYPTION_KEY or STORE_PASSPHRASE")
	}
	if opts.Path == "" {
		return nil, errors.New("securestore: passphrase mode needs SECURE_STORE_PATH for the salt")
	}

	salt, err := utils.LoadOrCreateSalt(opts.Path + ".salt")
	if err != nil {
		return nil, fmt.Errorf("securestore: salt: %w", err)
	}
	key, err := utils.DeriveKey(opts.Passphrase, salt)
	if err != nil {
		return nil, err
	}
	return utils.NewCipher(key)
}
