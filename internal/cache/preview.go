// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// preview.go caches assembled preview documents in Valkey. Keys are scoped
// per website so a header or footer change can drop every page at once.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// previewKeyPrefix is the Valkey key prefix for cached previews.
	previewKeyPrefix = "preview:"

	// DefaultPreviewTTL is how long an assembled preview stays cached.
	DefaultPreviewTTL = 10 * time.Minute
)

// PreviewCache manages preview HTML caching in Valkey. A nil *PreviewCache
// is valid and behaves as an always-empty cache.
type PreviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPreviewCache creates a new preview cache backed by the given Valkey client.
func NewPreviewCache(client *redis.Client, ttl time.Duration) *PreviewCache {
	if ttl == 0 {
		ttl = DefaultPreviewTTL
	}
	return &PreviewCache{client: client, ttl: ttl}
}

// PreviewKey returns the cache key for one page of one website.
func PreviewKey(websiteID, pageID uuid.UUID) string {
	return previewKeyPrefix + websiteID.String() + ":" + pageID.String()
}

// Get retrieves a cached preview. The bool is false on a miss.
func (pc *PreviewCache) Get(ctx context.Context, websiteID, pageID uuid.UUID) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	key := PreviewKey(websiteID, pageID)
	val, err := pc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("preview cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("preview cache hit", "key", key)
	return val, true
}

// Set stores an assembled preview with the configured TTL.
func (pc *PreviewCache) Set(ctx context.Context, websiteID, pageID uuid.UUID, html []byte) {
	if pc == nil {
		return
	}
	key := PreviewKey(websiteID, pageID)
	if err := pc.client.Set(ctx, key, html, pc.ttl).Err(); err != nil {
		slog.Warn("preview cache set error", "key", key, "error", err)
	}
}

// InvalidatePage drops the cached preview of a single page.
func (pc *PreviewCache) InvalidatePage(ctx context.Context, websiteID, pageID uuid.UUID) {
	if pc == nil {
		return
	}
	key := PreviewKey(websiteID, pageID)
	if err := pc.client.Del(ctx, key).Err(); err != nil {
		slog.Warn("preview cache invalidate error", "key", key, "error", err)
		return
	}
	slog.Debug("preview cache invalidated", "key", key)
}

// InvalidateWebsite drops every cached preview of a website by scanning
// for its key prefix. Header, footer and customization changes use it.
func (pc *PreviewCache) InvalidateWebsite(ctx context.Context, websiteID uuid.UUID) {
	if pc == nil {
		return
	}
	pattern := previewKeyPrefix + websiteID.String() + ":*"

	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("preview cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("preview cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("preview cache cleared for website", "website_id", websiteID, "deleted", deleted)
	}
}
