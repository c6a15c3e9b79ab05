package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/caratcompare/caratreel/internal/config"
	"github.com/caratcompare/caratreel/internal/logger"
)

type Store interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

// Archiver copies finished videos and their sidecars to a bucket
type Archiver struct {
	store  Store
	bucket string
	prefix string
}

func New(store Store, c config.ArchiveConfig) *Archiver {
	return &Archiver{store: store, bucket: c.Bucket, prefix: c.Prefix}
}

func (a *Archiver) Key(file string) string {
	return path.Join(a.prefix, filepath.Base(file))
}

// Archive uploads every file that is not in the bucket yet and returns
// the keys it wrote
func (a *Archiver) Archive(ctx context.Context, files ...string) ([]string, error) {
	log := logger.Scope("archive")
	var written []string
	for _, file := range files {
		key := a.Key(file)
		exists, err := a.store.Exists(ctx, a.bucket, key)
		if err != nil {
			return written, fmt.Errorf("checking s3://%s/%s: %w", a.bucket, key, err)
		}
		if exists {
			log.Debugf("s3://%s/%s already archived", a.bucket, key)
			continue
		}
		if err := a.put(ctx, file, key); err != nil {
			return written, err
		}
		log.Infof("archived %s to s3://%s/%s", filepath.Base(file), a.bucket, key)
		written = append(written, key)
	}
	return written, nil
}

func (a *Archiver) put(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := a.store.Put(ctx, a.bucket, key, f, contentType(file)); err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	return nil
}

func contentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".mp4":
		return "video/mp4"
	case ".json":
		return "application/json"
	case ".mp3":
		return "audio/mpeg"
	default:
		return ""
	}
}
