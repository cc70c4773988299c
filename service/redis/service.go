package redis

import (
	"errors"
	"time"

	"github.com/tokenfront/goapi/base/ctx"
)

// Forever is used as expire to keep a key without TTL
const Forever = time.Duration(-1)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("key not found")
)

// Service is the redis command surface the api uses
type Service interface {
	// Get returns the value of key, ErrNotFound when missing
	Get(context ctx.Ctx, key string) ([]byte, error)

	// Set stores the value under key with expire, Forever keeps it without TTL
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error

	// SetNX stores only when the key does not exist yet
	SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) error

	// Del removes the keys, returning how many existed
	Del(context ctx.Ctx, ks ...string) (int, error)

	// Exists reports whether the key exists
	Exists(context ctx.Ctx, key string) (bool, error)

	// TTL returns the remaining ttl of key in seconds
	TTL(context ctx.Ctx, key string) (int, error)

	// Incrby increments the key by val, creating it when missing
	Incrby(context ctx.Ctx, key string, val int) (int64, error)

	// Expire resets the ttl of key
	Expire(context ctx.Ctx, key string, ttl time.Duration) error
}
