package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const megabyte = 1024 * 1024

// ProgressCache memoizes per-program aggregates for a single calendar day.
// An entry is keyed by program and only served back for the same date key,
// so it expires naturally when the day rolls over.
type ProgressCache struct {
	cache  *freecache.Cache
	expire int
}

type entry struct {
	DayKey  string          `json:"day_key"`
	Payload json.RawMessage `json:"payload"`
}

func NewProgressCache(sizeMB int, ttl time.Duration) *ProgressCache {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	expire := int(ttl.Seconds())
	if expire < 0 {
		expire = 0
	}
	return &ProgressCache{
		cache:  freecache.NewCache(sizeMB * megabyte),
		expire: expire,
	}
}

func progressKey(programID string) []byte {
	return []byte(fmt.Sprintf("progress::%s", programID))
}

// Get decodes the cached value for programID into dst. It reports false when
// nothing is cached or the cached value was computed for another day.
func (c *ProgressCache) Get(programID, dayKey string, dst any) bool {
	raw, err := c.cache.Get(progressKey(programID))
	if err != nil {
		return false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		log.Errorf("failed to unmarshal progress cache entry for program %s: %s", programID, err)
		return false
	}
	if e.DayKey != dayKey {
		log.Tracef("progress cache for program %s is from %s, wanted %s", programID, e.DayKey, dayKey)
		return false
	}
	if err := json.Unmarshal(e.Payload, dst); err != nil {
		log.Errorf("failed to unmarshal cached progress for program %s: %s", programID, err)
		return false
	}
	return true
}

func (c *ProgressCache) Set(programID, dayKey string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.Errorf("failed to marshal progress for program %s: %s", programID, err)
		return
	}
	raw, err := json.Marshal(entry{DayKey: dayKey, Payload: payload})
	if err != nil {
		log.Errorf("failed to marshal progress cache entry for program %s: %s", programID, err)
		return
	}
	if err := c.cache.Set(progressKey(programID), raw, c.expire); err != nil {
		log.Errorf("failed to write progress cache for program %s: %s", programID, err)
		return
	}
	log.Debugf("progress cache set for program %s on %s", programID, dayKey)
}

// Invalidate drops whatever is cached for programID.
func (c *ProgressCache) Invalidate(programID string) {
	c.cache.Del(progressKey(programID))
}
