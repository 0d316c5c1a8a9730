package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"telegram-gita-bot/internal/infra/metrics"
)

var _ Sweeper = (*AudioJanitor)(nil)

// AudioJanitor removes narration files left behind in the audio directory,
// e.g. by a crash between download and send.
type AudioJanitor struct {
	dir    string
	ext    string
	maxAge time.Duration
	now    func() time.Time
}

func NewAudioJanitor(dir, ext string, maxAge time.Duration) *AudioJanitor {
	return &AudioJanitor{dir: dir, ext: ext, maxAge: maxAge, now: time.Now}
}

// Sweep deletes files with the janitor's extension older than maxAge.
// A missing directory is not an error.
func (j *AudioJanitor) Sweep(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := j.now().Add(-j.maxAge)
	removed := 0
	var errs []error
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), j.ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed concurrently
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(j.dir, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	metrics.AddAudioFilesSwept(removed)
	return removed, errors.Join(errs...)
}
