package platform

import (
	"context"
	"errors"
)

var (
	// ErrNoSuchElement is returned by a Finder when the locator matched nothing.
	ErrNoSuchElement = errors.New("no such element")

	// ErrNoSession is returned when no automation session is attached.
	ErrNoSession = errors.New("no automation session")
)

// Source supplies the current UI hierarchy as markup.
type Source interface {
	// Snapshot returns the page source. An empty string means nothing is
	// available.
	Snapshot(ctx context.Context) (string, error)
}

// Finder resolves a locator against the live UI and returns the element handle.
type Finder interface {
	FindElement(ctx context.Context, loc Locator) (string, error)
}

// ElementsFinder resolves a locator to every matching element. No match is
// an empty result, not an error.
type ElementsFinder interface {
	FindElements(ctx context.Context, loc Locator) ([]string, error)
}

// Screenshotter captures the screen as PNG bytes.
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (string, error)

// Snapshot calls f.
func (f SourceFunc) Snapshot(ctx context.Context) (string, error) {
	return f(ctx)
}
