package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Provider bundles the backends of one automation server.
type Provider struct {
	Source         Source
	Finder         Finder
	ElementsFinder ElementsFinder
	Screenshotter  Screenshotter
}

// ProviderOptions configures a remote provider.
type ProviderOptions struct {
	URL     string        // Server base URL, e.g. http://127.0.0.1:4723/wd/hub
	Session string        // Session ID (empty = first active session)
	Timeout time.Duration // Per-request timeout
	Logger  *zap.Logger   // Request logger (nil = discard)
}

// ErrUnsupported is returned when no remote backend has been registered.
var ErrUnsupported = errors.New("no automation backend registered")

// NewProviderFunc is set by backend packages via init().
// See internal/platform/appium/init.go for the Appium registration.
var NewProviderFunc func(opts ProviderOptions) (*Provider, error)

// NewProvider returns a Provider for the registered backend.
func NewProvider(opts ProviderOptions) (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc(opts)
}

// StaticSource always returns the same markup.
func StaticSource(markup string) Source {
	return SourceFunc(func(context.Context) (string, error) {
		return markup, nil
	})
}

// FileSource reads the markup from path on every call.
func FileSource(path string) Source {
	return SourceFunc(func(context.Context) (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read snapshot %s: %w", path, err)
		}
		return string(data), nil
	})
}
