// Package downloader transfers one GIN file to disk with a bounded retry
// budget.
package downloader

import (
	"context"
	"errors"
	"io"
	"time"

	errs "gindownload/pkg/errors"
	"gindownload/pkg/logger"
	"gindownload/pkg/ratelimit"
	"gindownload/pkg/retry"
	"gindownload/pkg/storage"
)

// DefaultReportInterval is how often, in bytes, progress is reported
const DefaultReportInterval = 1 << 20

// Fetcher writes the body found at url into w
type Fetcher interface {
	Fetch(ctx context.Context, url string, w io.Writer) (int64, error)
}

// Job is a single download
type Job struct {
	Ordinal int
	URL     string
	Dest    string
}

// Result describes a finished download
type Result struct {
	Job      Job
	Bytes    int64
	Attempts int
	Duration time.Duration
}

// Options tunes a Downloader
type Options struct {
	// MaxAttempts is the total number of attempts per file
	MaxAttempts int
	// RetryDelay is the base pause between attempts. Zero retries immediately.
	RetryDelay time.Duration
	// Limiter paces attempts. Nil means unlimited.
	Limiter ratelimit.Limiter
	// OnProgress receives the running byte count of the current attempt
	OnProgress func(job Job, written int64)
	// OnRetry is told about every failed attempt that will be retried
	OnRetry func(job Job, attempt int, err error)
}

// Downloader fetches files through a temporary sibling so a destination only
// ever holds a complete transfer
type Downloader struct {
	fetcher Fetcher
	opts    Options
	logger  logger.Logger
}

// New creates a Downloader
func New(fetcher Fetcher, opts Options, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.Unlimited{}
	}
	return &Downloader{fetcher: fetcher, opts: opts, logger: log}
}

// Download fetches job.URL into job.Dest. Every failed attempt consumes one
// unit of the budget. When the budget is spent the error has type
// retry_exhausted and job.Dest does not exist.
func (d *Downloader) Download(ctx context.Context, job Job) (*Result, error) {
	start := time.Now()
	log := d.logger.WithFields(map[string]interface{}{
		"step": job.Ordinal,
		"dest": job.Dest,
	})

	var written int64
	attempts := 0
	cfg := &retry.Config{
		MaxAttempts: d.opts.MaxAttempts,
		Backoff:     retry.FromDelay(d.opts.RetryDelay),
		RetryIf:     retry.DefaultRetryIf,
		Logger:      log,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			if d.opts.OnRetry != nil {
				d.opts.OnRetry(job, attempt, err)
			}
		},
	}

	err := retry.Do(ctx, func(ctx context.Context, attempt int) error {
		attempts = attempt
		n, err := d.attempt(ctx, job)
		written = n
		return err
	}, cfg)

	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			return nil, errs.New(errs.ErrorTypeRetryExhausted, "download", job.Dest, exhausted)
		}
		return nil, err
	}

	res := &Result{
		Job:      job,
		Bytes:    written,
		Attempts: attempts,
		Duration: time.Since(start),
	}
	log.DebugWithFields("download finished", map[string]interface{}{
		"bytes":    res.Bytes,
		"attempts": res.Attempts,
		"duration": res.Duration,
	})
	return res, nil
}

func (d *Downloader) attempt(ctx context.Context, job Job) (int64, error) {
	if err := d.opts.Limiter.Wait(ctx); err != nil {
		return 0, err
	}

	tmp, err := storage.CreateTemp(job.Dest)
	if err != nil {
		return 0, err
	}

	var cb func(int64)
	if d.opts.OnProgress != nil {
		cb = func(written int64) { d.opts.OnProgress(job, written) }
	}
	pw := NewProgressWriter(tmp, DefaultReportInterval, cb)

	if _, err := d.fetcher.Fetch(ctx, job.URL, pw); err != nil {
		tmp.Discard()
		return 0, err
	}
	if err := tmp.Commit(); err != nil {
		return 0, err
	}
	return pw.Written(), nil
}
