// janitor.go - Periodic removal of old rendered images.
package server

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xob0t/GoCaption/pkg/logger"
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true}

// Janitor deletes image files older than MaxAge from Dirs every Interval.
type Janitor struct {
	Dirs     []string
	MaxAge   time.Duration
	Interval time.Duration
	Logger   *zap.Logger
}

func (j *Janitor) log() *zap.Logger {
	if j.Logger != nil {
		return j.Logger.Named("janitor")
	}
	return logger.L().Named("janitor")
}

// Sweep removes expired images and returns how many were deleted.
// Subdirectories and non-image files are left alone.
func (j *Janitor) Sweep(now time.Time) int {
	var removed int
	for _, dir := range j.Dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				j.log().Warn("read dir", zap.String("dir", dir), zap.Error(err))
			}
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			info, err := e.Info()
			if err != nil || now.Sub(info.ModTime()) <= j.MaxAge {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if err := os.Remove(path); err != nil {
				j.log().Warn("remove expired image", zap.String("path", path), zap.Error(err))
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		j.log().Info("expired images removed", zap.Int("count", removed))
	}
	return removed
}

// Run sweeps once immediately and then every Interval until ctx ends.
func (j *Janitor) Run(ctx context.Context) {
	if j.MaxAge <= 0 || j.Interval <= 0 {
		return
	}
	j.Sweep(time.Now())
	t := time.NewTicker(j.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			j.Sweep(now)
		}
	}
}
