// Package artwork pre-warms profile background images into a local cache
// so the dashboard (and anything layered on top of it) never waits on the
// network after the initial profile fetch.
package artwork

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/6viph5/gravity/internal/backend"
)

// Cache stores downloaded artwork keyed by its source reference.
type Cache struct {
	dir  string
	http *resty.Client
}

// NewCache opens the artwork cache in the user cache directory.
func NewCache() (*Cache, error) {
	return NewCacheDir(filepath.Join(xdg.CacheHome, "gravity", "artwork"))
}

// NewCacheDir opens an artwork cache rooted at dir.
func NewCacheDir(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating artwork cache: %w", err)
	}
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(1)
	return &Cache{dir: dir, http: client}, nil
}

// Path returns where the artwork for ref lives on disk, whether or not it
// has been fetched yet.
func (c *Cache) Path(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	name := hex.EncodeToString(sum[:16])
	if ext := filepath.Ext(ref); len(ext) > 1 && len(ext) <= 5 {
		name += ext
	}
	return filepath.Join(c.dir, name)
}

// Has reports whether the artwork for ref is already cached.
func (c *Cache) Has(ref string) bool {
	_, err := os.Stat(c.Path(ref))
	return err == nil
}

// Prewarm fetches every profile background not yet present. Failures are
// logged and skipped: artwork is decoration, never a reason to block the
// launcher. Returns how many images were fetched.
func (c *Cache) Prewarm(ctx context.Context, profiles []backend.Profile) int {
	fetched := 0
	for _, p := range profiles {
		ref := p.Visuals.Background
		if ref == "" || !strings.HasPrefix(ref, "http") {
			continue
		}
		if c.Has(ref) {
			continue
		}
		if err := c.fetch(ctx, ref); err != nil {
			log.Warn().Err(err).Str("profile", p.ID).Str("ref", ref).
				Msg("artwork prefetch failed")
			continue
		}
		fetched++
	}
	return fetched
}

func (c *Cache) fetch(ctx context.Context, ref string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetOutput(c.Path(ref)).
		Get(ref)
	if err != nil {
		return err
	}
	if resp.IsError() {
		// resty leaves a partial output file behind on HTTP errors.
		_ = os.Remove(c.Path(ref))
		return fmt.Errorf("fetch %s: status %s", ref, resp.Status())
	}
	return nil
}
