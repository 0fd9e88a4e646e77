package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/lamchakchan/fastmac/internal/logging"
)

// Origin says where a loaded catalog came from.
type Origin string

const (
	OriginFile   Origin = "file"
	OriginCache  Origin = "cache"
	OriginRemote Origin = "remote"
	OriginStale  Origin = "stale cache"
)

// Source resolves the catalog: a local file when configured, otherwise a
// fresh cache entry, otherwise the document store. When the store cannot be
// reached an expired cache entry is used instead. Cache and Client may be nil.
type Source struct {
	File   string
	Cache  *Cache
	Client *Client
}

// Load returns the catalog and where it was read from.
func (s *Source) Load(ctx context.Context) (*Catalog, Origin, error) {
	if s.File != "" {
		cat, err := LoadFile(s.File)
		if err != nil {
			return nil, "", err
		}
		return cat, OriginFile, nil
	}

	key := s.cacheKey()
	if s.Cache != nil {
		data, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			logging.Warn("Catalog", "Cache read failed, fetching instead: %v", err)
		} else if ok {
			cat, err := Decode(data, FormatJSON)
			if err == nil {
				logging.Debug("Catalog", "Using cached catalog for %s", key)
				return cat, OriginCache, nil
			}
			logging.Warn("Catalog", "Discarding unreadable cache entry: %v", err)
		}
	}

	if s.Client == nil {
		return nil, "", fmt.Errorf("no catalog file or remote URL configured")
	}
	cat, err := s.Client.Fetch(ctx)
	if err != nil {
		if stale, ok := s.stale(ctx, key); ok {
			logging.Warn("Catalog", "Using an expired cached catalog: %v", err)
			return stale, OriginStale, nil
		}
		return nil, "", err
	}

	if s.Cache != nil {
		data, err := Encode(cat)
		if err == nil {
			err = s.Cache.Put(ctx, key, data)
		}
		if err != nil {
			logging.Warn("Catalog", "Could not cache catalog: %v", err)
		}
	}
	return cat, OriginRemote, nil
}

// stale decodes the cached entry for key regardless of its age.
func (s *Source) stale(ctx context.Context, key string) (*Catalog, bool) {
	if s.Cache == nil {
		return nil, false
	}
	data, storedAt, ok, err := s.Cache.Stale(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	cat, err := Decode(data, FormatJSON)
	if err != nil {
		return nil, false
	}
	logging.Debug("Catalog", "Stale entry for %s stored %s", key, storedAt.Format(time.RFC3339))
	return cat, true
}

// NeedsFetch reports whether Load would go to the network. The CLI uses it
// to decide whether to show a spinner.
func (s *Source) NeedsFetch(ctx context.Context) bool {
	if s.File != "" || s.Client == nil {
		return false
	}
	if s.Cache == nil {
		return true
	}
	_, ok, err := s.Cache.Get(ctx, s.cacheKey())
	return err != nil || !ok
}

func (s *Source) cacheKey() string {
	if s.Client == nil {
		return "catalog"
	}
	return "catalog:" + s.Client.BaseURL
}
