package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillswap/backend/internal/goroutine"
)

const tutorsCachePrefix = "tutors:"

// CacheService — in-memory кэш с TTL и инвалидацией по префиксу.
type CacheService struct {
	mu    sync.RWMutex
	cache map[string]cacheEntry
	now   func() time.Time
	// generation растёт при каждой инвалидации. GetOrSet не сохраняет
	// значение, посчитанное до инвалидации.
	generation uint64
}

type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

// NewCacheService создаёт кэш. Просроченные записи вычищаются,
// пока ctx не отменён.
func NewCacheService(ctx context.Context) *CacheService {
	cs := &CacheService{
		cache: make(map[string]cacheEntry),
		now:   time.Now,
	}
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		cs.cleanup(ctx, 5*time.Minute)
	})
	return cs
}

// Get возвращает значение, если оно есть и не просрочено.
func (cs *CacheService) Get(key string) (interface{}, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entry, ok := cs.cache[key]
	if !ok || cs.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.data, true
}

// Set сохраняет значение на ttl.
func (cs *CacheService) Set(key string, value interface{}, ttl time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.cache[key] = cacheEntry{data: value, expiresAt: cs.now().Add(ttl)}
}

// Delete удаляет ключ.
func (cs *CacheService) Delete(key string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.cache, key)
	cs.generation++
}

// InvalidateByPrefix удаляет все ключи с префиксом.
func (cs *CacheService) InvalidateByPrefix(prefix string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.generation++
	for key := range cs.cache {
		if strings.HasPrefix(key, prefix) {
			delete(cs.cache, key)
		}
	}
}

// InvalidateTutors сбрасывает все закэшированные списки преподавателей.
func (cs *CacheService) InvalidateTutors() {
	if cs == nil {
		return
	}
	cs.InvalidateByPrefix(tutorsCachePrefix)
}

// GetOrSet возвращает значение из кэша или вычисляет и сохраняет его.
// Ошибки fn не кэшируются. Если во время fn кэш инвалидировали,
// результат отдаётся вызывающему, но не сохраняется.
func (cs *CacheService) GetOrSet(key string, ttl time.Duration, fn func() (interface{}, error)) (interface{}, error) {
	cs.mu.RLock()
	entry, ok := cs.cache[key]
	started := cs.generation
	cs.mu.RUnlock()
	if ok && !cs.now().After(entry.expiresAt) {
		return entry.data, nil
	}

	value, err := fn()
	if err != nil {
		return nil, err
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.generation == started {
		cs.cache[key] = cacheEntry{data: value, expiresAt: cs.now().Add(ttl)}
	}
	return value, nil
}

func (cs *CacheService) cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cs.mu.Lock()
			now := cs.now()
			for key, entry := range cs.cache {
				if now.After(entry.expiresAt) {
					delete(cs.cache, key)
				}
			}
			cs.mu.Unlock()
		}
	}
}

// TutorsCacheKey — ключ агрегированного списка преподавателей без учёта фильтров.
func TutorsCacheKey(excludeUserID uuid.UUID) string {
	if excludeUserID == uuid.Nil {
		return tutorsCachePrefix + "all"
	}
	return tutorsCachePrefix + excludeUserID.String()
}
