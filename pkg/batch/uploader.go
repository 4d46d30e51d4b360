package batch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// UploadJob carries one file to a background uploader. Jobs are not gated by
// the sequential run loop; uploads proceed concurrently while the batch keeps
// moving.
type UploadJob struct {
	UnitID string
	Name   string
	Data   []byte
}

type UploadFunc func(ctx context.Context, job UploadJob) (link string, err error)

// Uploader drains a queue of upload jobs with bounded concurrency. Enqueue is
// fire-and-forget: upload failures surface through OnDone, never through the
// batch result of the unit that produced the job.
type Uploader struct {
	upload   UploadFunc
	onDone   func(job UploadJob, link string, err error)
	group    *errgroup.Group
	groupCtx context.Context
	jobs     chan UploadJob
	once     sync.Once
}

func NewUploader(ctx context.Context, workers int, upload UploadFunc, onDone func(UploadJob, string, error)) *Uploader {
	if workers <= 0 {
		workers = 2
	}
	g, gctx := errgroup.WithContext(ctx)
	u := &Uploader{
		upload:   upload,
		onDone:   onDone,
		group:    g,
		groupCtx: gctx,
		jobs:     make(chan UploadJob, 64),
	}
	for i := 0; i < workers; i++ {
		g.Go(u.worker)
	}
	return u
}

func (u *Uploader) worker() error {
	for {
		select {
		case job, ok := <-u.jobs:
			if !ok {
				return nil
			}
			link, err := u.upload(u.groupCtx, job)
			if u.onDone != nil {
				u.onDone(job, link, err)
			}
		case <-u.groupCtx.Done():
			return u.groupCtx.Err()
		}
	}
}

// Enqueue hands a job to the workers. It never blocks the caller on a slow
// upload; when the queue is saturated the job is dropped onto a fresh
// goroutine instead.
func (u *Uploader) Enqueue(job UploadJob) {
	select {
	case u.jobs <- job:
	case <-u.groupCtx.Done():
	default:
		go func() {
			select {
			case u.jobs <- job:
			case <-u.groupCtx.Done():
			}
		}()
	}
}

// Close stops accepting jobs and waits for in-flight uploads to finish.
func (u *Uploader) Close() error {
	u.once.Do(func() { close(u.jobs) })
	return u.group.Wait()
}
