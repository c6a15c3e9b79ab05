package workers

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/caratcompare/caratreel/internal/job"
	"github.com/caratcompare/caratreel/internal/logger"
	"github.com/caratcompare/caratreel/internal/storage"
)

var log = logger.Log

// FrameSource renders the frame shown at t seconds. It must be safe for
// concurrent use.
type FrameSource interface {
	Frame(t float64) *image.NRGBA
}

type Worker struct {
	ctx    context.Context
	source FrameSource
	frames *storage.Frames
}

func NewWorker(ctx context.Context, source FrameSource, frames *storage.Frames) *Worker {
	return &Worker{
		ctx:    ctx,
		source: source,
		frames: frames,
	}
}

func (w *Worker) WorkerRender(i int, jobs <-chan job.FrameJob, results chan<- job.FrameRes) {
	name := fmt.Sprintf("WorkerRender #%d", i)
	log.Debugf("%s started", name)
	defer log.Debugf("%s finished", name)

	for {
		select {
		case <-w.ctx.Done():
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			now := time.Now()
			img := w.source.Frame(j.Time)
			path, err := w.frames.Save(j.FrameNum, img)
			log.Debugf("%s %s done in %s", name, j.Print(), time.Since(now))

			select {
			case results <- job.FrameRes{FrameNum: j.FrameNum, Path: path, Err: err}:
			case <-w.ctx.Done():
				return
			}
		}
	}
}

// RenderAll renders frames 1..total on n workers. progress is called from
// the calling goroutine after every saved frame. The first failed frame
// stops the run.
func (w *Worker) RenderAll(total, fps, n int, progress func(done int)) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	if n < 1 {
		n = 1
	}
	ctx, cancel := context.WithCancel(w.ctx)
	defer cancel()
	runner := &Worker{ctx: ctx, source: w.source, frames: w.frames}

	jobs := make(chan job.FrameJob)
	results := make(chan job.FrameRes)

	wg := sync.WaitGroup{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			runner.WorkerRender(i, jobs, results)
		}(i)
	}

	go func() {
		defer close(jobs)
		for frame := 1; frame <= total; frame++ {
			select {
			case jobs <- job.New(frame, fps):
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var err error
	done := 0
	for res := range results {
		if res.Err != nil && err == nil {
			err = res.Err
			cancel()
			continue
		}
		done++
		if progress != nil && err == nil {
			progress(done)
		}
	}
	if err != nil {
		return err
	}
	if done < total {
		return w.ctx.Err()
	}
	return nil
}
