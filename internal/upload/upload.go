package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cfg "github.com/caratcompare/caratreel/internal/config"
	"github.com/caratcompare/caratreel/internal/logger"
	"github.com/caratcompare/caratreel/internal/meta"
	"github.com/caratcompare/caratreel/internal/storage"
	"golang.org/x/time/rate"
)

// Entry is one line of the upload log
type Entry struct {
	VideoID string `json:"video_id"`
	File    string `json:"file"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

type Summary struct {
	Found    int
	Uploaded int
	Skipped  int
	Failed   int
}

type Uploader struct {
	publisher Publisher
	dir       string
	logPath   string
	max       int
	limiter   *rate.Limiter

	// OnProgress is called before each upload
	OnProgress func(done, total int, file string)
}

// NewUploader uploads the videos of dir. Consecutive uploads are at least
// delay apart.
func NewUploader(p Publisher, dir string, max int, delay time.Duration) *Uploader {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	if max <= 0 {
		max = cfg.UploadMaxVideos
	}
	return &Uploader{
		publisher: p,
		dir:       dir,
		logPath:   filepath.Join(dir, cfg.PathUploadLog),
		max:       max,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

func (u *Uploader) LogPath() string {
	return u.logPath
}

// UploadAll uploads the sorted mp4 files of the dir that are not in the log
// yet and carry a sidecar, at most max of them. A failed upload is logged and
// the run goes on.
func (u *Uploader) UploadAll(ctx context.Context) (Summary, error) {
	log := logger.Scope("upload")
	videos, err := storage.ListVideos(u.dir)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Found: len(videos)}
	if len(videos) == 0 {
		log.Warnf("No videos found in %s", u.dir)
		return sum, nil
	}

	entries, err := u.readLog()
	if err != nil {
		return sum, err
	}
	done := make(map[string]bool, len(entries))
	for _, e := range entries {
		done[e.File] = true
	}

	type pending struct {
		video string
		meta  meta.Metadata
	}
	var queue []pending
	for _, video := range videos {
		name := filepath.Base(video)
		if done[name] {
			log.Debugf("Skipping %s - already uploaded", name)
			sum.Skipped++
			continue
		}
		m, err := meta.Load(video)
		if err != nil {
			log.Infof("Skipping %s - no metadata: %v", name, err)
			sum.Skipped++
			continue
		}
		queue = append(queue, pending{video: video, meta: m})
	}
	if len(queue) > u.max {
		queue = queue[:u.max]
	}

	log.Infof("Found %d videos, uploading %d", sum.Found, len(queue))
	for i, p := range queue {
		name := filepath.Base(p.video)
		if u.OnProgress != nil {
			u.OnProgress(i, len(queue), name)
		}
		entry, err := u.publish(ctx, p.video, p.meta)
		if err != nil {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			log.Errorf("Upload of %s failed: %v", name, err)
			sum.Failed++
			continue
		}
		entries = append(entries, entry)
		if err := storage.WriteJSON(u.logPath, entries); err != nil {
			return sum, fmt.Errorf("writing upload log: %w", err)
		}
		sum.Uploaded++
	}
	if u.OnProgress != nil {
		u.OnProgress(len(queue), len(queue), "")
	}
	log.Infof("Upload complete! %d uploaded, %d skipped, %d failed", sum.Uploaded, sum.Skipped, sum.Failed)
	return sum, nil
}

// UploadOne uploads <dir>/<name>.mp4, name may carry the extension
func (u *Uploader) UploadOne(ctx context.Context, name string) (Entry, error) {
	video := filepath.Join(u.dir, name)
	if filepath.Ext(video) != cfg.VideoExt {
		video += cfg.VideoExt
	}
	if !storage.Exists(video) {
		return Entry{}, fmt.Errorf("video not found: %s", video)
	}
	m, err := meta.Load(video)
	if err != nil {
		return Entry{}, fmt.Errorf("metadata of %s: %w", filepath.Base(video), err)
	}
	entry, err := u.publish(ctx, video, m)
	if err != nil {
		return Entry{}, err
	}
	entries, err := u.readLog()
	if err != nil {
		return entry, err
	}
	return entry, storage.WriteJSON(u.logPath, append(entries, entry))
}

func (u *Uploader) publish(ctx context.Context, video string, m meta.Metadata) (Entry, error) {
	if err := u.limiter.Wait(ctx); err != nil {
		return Entry{}, err
	}
	id, err := u.publisher.Publish(ctx, video, m)
	if err != nil {
		return Entry{}, err
	}
	entry := Entry{
		VideoID: id,
		File:    filepath.Base(video),
		Title:   m.Title,
		URL:     "https://youtube.com/watch?v=" + id,
	}
	logger.Scope("upload").Infof("Uploaded! %s", entry.URL)
	return entry, nil
}

func (u *Uploader) readLog() ([]Entry, error) {
	var entries []Entry
	err := storage.ReadJSON(u.logPath, &entries)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}
