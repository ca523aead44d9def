package snapshot

import (
	"cmp"
	"fmt"
)

const (
	defaultMaxBytes = 32 << 20
	defaultMaxDepth = 512
)

// Option configures Parse.
type Option func(*limits)

type limits struct {
	maxBytes int
	maxDepth int
}

// MaxBytes caps the accepted snapshot size. Zero keeps the default.
func MaxBytes(n int) Option {
	return func(l *limits) { l.maxBytes = n }
}

// MaxDepth caps the element nesting depth. Zero keeps the default.
func MaxDepth(n int) Option {
	return func(l *limits) { l.maxDepth = n }
}

func resolveLimits(opts []Option) (limits, error) {
	var l limits
	for _, opt := range opts {
		opt(&l)
	}
	if l.maxBytes < 0 {
		return limits{}, fmt.Errorf("snapshot max bytes must be >= 0")
	}
	if l.maxDepth < 0 {
		return limits{}, fmt.Errorf("snapshot max depth must be >= 0")
	}
	l.maxBytes = cmp.Or(l.maxBytes, defaultMaxBytes)
	l.maxDepth = cmp.Or(l.maxDepth, defaultMaxDepth)
	return l, nil
}
