package securestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnshRaj112/saferplace/pkg/utils"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix is the Redis key prefix for secure-store entries
const KeyPrefix = "securestore:"

// RedisStore keeps sealed values in Redis. Redis only ever sees ciphertext.
type RedisStore struct {
	client *redis.Client
	cipher *utils.Cipher
}

func NewRedisStore(client *redis.Client, c *utils.Cipher) *RedisStore {
	return &RedisStore{client: client, cipher: c}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	sealed, err := s.client.Get(ctx, KeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	value, err := s.cipher.Decrypt(sealed, key)
	if err != nil {
		return "", fmt.Errorf("securestore: decrypt %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	sealed, err := s.cipher.Encrypt(value, key)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, KeyPrefix+key, sealed, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, KeyPrefix+key).Err()
}
