package platform

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewProvider_Unregistered(t *testing.T) {
	orig := NewProviderFunc
	NewProviderFunc = nil
	defer func() { NewProviderFunc = orig }()

	_, err := NewProvider(ProviderOptions{})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got: %v", err)
	}
}

func TestNewProvider_UsesRegisteredFunc(t *testing.T) {
	orig := NewProviderFunc
	defer func() { NewProviderFunc = orig }()

	var got ProviderOptions
	NewProviderFunc = func(opts ProviderOptions) (*Provider, error) {
		got = opts
		return &Provider{Source: StaticSource("<hierarchy/>")}, nil
	}

	p, err := NewProvider(ProviderOptions{URL: "http://localhost:4723", Session: "abc"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Session != "abc" || got.URL != "http://localhost:4723" {
		t.Errorf("options not passed through: %+v", got)
	}
	markup, err := p.Source.Snapshot(context.Background())
	if err != nil || markup != "<hierarchy/>" {
		t.Errorf("Snapshot() = %q, %v", markup, err)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.xml")
	if err := os.WriteFile(path, []byte("<hierarchy/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FileSource(path).Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != "<hierarchy/>" {
		t.Errorf("Snapshot() = %q", got)
	}

	_, err = FileSource(filepath.Join(t.TempDir(), "missing.xml")).Snapshot(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestSourceFunc_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	src := SourceFunc(func(ctx context.Context) (string, error) {
		return ctx.Value(key{}).(string), nil
	})
	got, _ := src.Snapshot(ctx)
	if got != "v" {
		t.Errorf("Snapshot() = %q, want v", got)
	}
}
