package upload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Cleaner удаляет из папки загрузок файлы старше TTL. Очистка строго
// best-effort: любые ошибки логируются и игнорируются.
type Cleaner struct {
	logger *zap.SugaredLogger
}

func NewCleaner(logger *zap.SugaredLogger) *Cleaner { return &Cleaner{logger: logger} }

// Clean удаляет устаревшие загрузки из dir. Обычно файлы удаляются сразу после
// анализа; сюда попадает только мусор после сбоев.
func (c *Cleaner) Clean(dir string, ttl time.Duration) {
	if ttl <= 0 || dir == "" {
		return
	}

	deadline := time.Now().Add(-ttl)
	exts := []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		c.logger.Warnw("Failed to read upload dir for cleanup", "dir", dir, "error", err)
		return
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		lower := strings.ToLower(e.Name())
		if !slices.ContainsFunc(exts, func(ext string) bool { return strings.HasSuffix(lower, ext) }) {
			continue
		}
		fi, statErr := e.Info()
		if statErr != nil {
			c.logger.Warnw("Failed to stat upload during cleanup", "name", e.Name(), "error", statErr)
			continue
		}
		if fi.ModTime().Before(deadline) {
			full := filepath.Join(dir, e.Name())
			if err := os.Remove(full); err != nil {
				c.logger.Warnw("Failed to remove stale upload", "path", full, "error", err)
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		c.logger.Infow("Removed stale uploads", "dir", dir, "removed", removed)
	}
}

// Run периодически чистит папку загрузок, пока контекст не отменён.
func (c *Cleaner) Run(ctx context.Context, dir string, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Clean(dir, ttl)
		}
	}
}
