package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Fetcher loads the bytes of an external resource. base is the directory
// relative paths are resolved against; it is empty for explicit file
// references. Cancellation and timeouts are the fetcher's concern.
type Fetcher interface {
	Fetch(ctx context.Context, base, path string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, base, path string) ([]byte, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, base, path string) ([]byte, error) {
	return f(ctx, base, path)
}

// FilesystemFetcher reads resources from the local filesystem.
type FilesystemFetcher struct{}

// Fetch implements Fetcher. Without a base, path is used as given
// (absolute, or relative to the working directory).
func (FilesystemFetcher) Fetch(ctx context.Context, base, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full := path
	if base != "" {
		full = filepath.Join(base, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return data, nil
}

// EmptyFetcher rejects every request. It is meant for imports of
// self-contained data that must not reference anything external.
type EmptyFetcher struct{}

// Fetch implements Fetcher.
func (EmptyFetcher) Fetch(context.Context, string, string) ([]byte, error) {
	return nil, ErrExternalReference
}

// MapFetcher serves resources from memory, keyed by the joined slash path
// (base + "/" + path, or path alone when base is empty).
type MapFetcher map[string][]byte

// Fetch implements Fetcher.
func (m MapFetcher) Fetch(ctx context.Context, base, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := path
	if base != "" {
		key = filepath.ToSlash(filepath.Join(base, path))
	}
	data, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s: not found", ErrIO, key)
	}
	return data, nil
}
