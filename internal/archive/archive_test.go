package archive

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/caratcompare/caratreel/internal/config"
)

type memStore struct {
	objects map[string]string
	types   map[string]string
	headErr error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string]string{}, types: map[string]string{}}
}

func (m *memStore) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[bucket+"/"+key] = string(data)
	m.types[bucket+"/"+key] = contentType
	return nil
}

func (m *memStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	if m.headErr != nil {
		return false, m.headErr
	}
	_, ok := m.objects[bucket+"/"+key]
	return ok, nil
}

func TestArchive(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "final_a.mp4")
	sidecar := filepath.Join(dir, "final_a_metadata.json")
	for _, f := range []string{video, sidecar} {
		if err := os.WriteFile(f, []byte(filepath.Base(f)), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	store := newMemStore()
	a := New(store, config.ArchiveConfig{Bucket: "reels", Prefix: "shorts"})
	keys, err := a.Archive(context.Background(), video, sidecar)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"shorts/final_a.mp4", "shorts/final_a_metadata.json"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
	if store.objects["reels/shorts/final_a.mp4"] != "final_a.mp4" {
		t.Errorf("objects = %v", store.objects)
	}
	if store.types["reels/shorts/final_a.mp4"] != "video/mp4" || store.types["reels/shorts/final_a_metadata.json"] != "application/json" {
		t.Errorf("content types = %v", store.types)
	}

	// archived files are not sent twice
	keys, err = a.Archive(context.Background(), video)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Errorf("rewrote %v", keys)
	}
}

func TestArchiveErrors(t *testing.T) {
	store := newMemStore()
	a := New(store, config.ArchiveConfig{Bucket: "reels"})
	if _, err := a.Archive(context.Background(), filepath.Join(t.TempDir(), "missing.mp4")); err == nil {
		t.Errorf("expected error for a missing file")
	}

	store.headErr = errors.New("access denied")
	if _, err := a.Archive(context.Background(), "x.mp4"); err == nil {
		t.Errorf("expected error when the bucket cannot be checked")
	}
}

func TestKey(t *testing.T) {
	a := New(newMemStore(), config.ArchiveConfig{Bucket: "b"})
	if got := a.Key("out/final_a.mp4"); got != "final_a.mp4" {
		t.Errorf("Key = %q", got)
	}
}
