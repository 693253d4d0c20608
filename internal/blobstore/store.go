// Package blobstore abstracts the remote object store the share lifecycle
// depends on: flat-namespace put/get/delete keyed by slash-prefixed paths.
// Implementations map their transport failures onto the package sentinels
// so callers can translate them into domain errors with errors.Is.
package blobstore

import (
	"context"
	"io"
)

// ProgressFunc receives fractional transfer progress in [0, 1].
type ProgressFunc func(fraction float64)

// Store is the remote blob store contract consumed by the share lifecycle.
//
// Put overwrites idempotently. Delete treats an already-absent object as
// success, because deletes are expected to race with expiry sweeps. A nil
// progress callback disables reporting.
type Store interface {
	Put(ctx context.Context, path string, data []byte, progress ProgressFunc) error
	Get(ctx context.Context, path string, progress ProgressFunc) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

// progressReader wraps r and reports fractional progress against total as
// bytes flow through it. Fractions are clamped to 1 in case the underlying
// transport re-reads the stream.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	progress ProgressFunc
}

func newProgressReader(r io.Reader, total int64, progress ProgressFunc) io.Reader {
	if progress == nil || total <= 0 {
		return r
	}
	return &progressReader{r: r, total: total, progress: progress}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		frac := float64(p.read) / float64(p.total)
		if frac > 1 {
			frac = 1
		}
		p.progress(frac)
	}
	return n, err
}
