package importer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFilesystemFetcher(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 2, 3}
	if err := os.WriteFile(filepath.Join(dir, "sub", "a.bin"), want, 0644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	got, err := FilesystemFetcher{}.Fetch(ctx, dir, "sub/a.bin")
	if err != nil {
		t.Fatalf("fetch with base failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	got, err = FilesystemFetcher{}.Fetch(ctx, "", filepath.Join(dir, "sub", "a.bin"))
	if err != nil {
		t.Fatalf("fetch without base failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	_, err = FilesystemFetcher{}.Fetch(ctx, dir, "missing.bin")
	if !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected the os error to be wrapped, got %v", err)
	}
}

func TestFilesystemFetcher_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FilesystemFetcher{}.Fetch(ctx, "", "whatever.bin")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEmptyFetcher(t *testing.T) {
	_, err := EmptyFetcher{}.Fetch(context.Background(), "models", "a.bin")
	if !errors.Is(err, ErrExternalReference) {
		t.Errorf("expected ErrExternalReference, got %v", err)
	}
}

func TestMapFetcher(t *testing.T) {
	m := MapFetcher{
		"models/a.bin": {1},
		"/abs/b.bin":   {2},
	}
	ctx := context.Background()

	if got, err := m.Fetch(ctx, "models", "a.bin"); err != nil || !bytes.Equal(got, []byte{1}) {
		t.Errorf("unexpected result: %v, %v", got, err)
	}
	if got, err := m.Fetch(ctx, "", "/abs/b.bin"); err != nil || !bytes.Equal(got, []byte{2}) {
		t.Errorf("unexpected result: %v, %v", got, err)
	}
	if _, err := m.Fetch(ctx, "models", "c.bin"); !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
}
