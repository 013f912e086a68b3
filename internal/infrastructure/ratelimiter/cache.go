package ratelimiter

import (
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// GetterSetter stores bucket state. Values are float64 so fractional refills
// accumulate between requests.
type GetterSetter interface {
	Get(key string) (float64, error)
	SetWithExpiration(key string, value float64, expiration time.Duration) error
	Close() error
}
