package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Cache is a simple thread-safe key-value store using sync.Map.
// It backs read queries (e.g. available-batch lookups) when Redis is not
// configured; entries can be tagged and invalidated per tag on writes.
type Cache struct {
	m sync.Map
	// tagIndex maps tag string to a set of keys (*sync.Map of key -> struct{})
	tagIndex sync.Map
}

var (
	once     sync.Once
	instance *Cache
)

func GetInstance() *Cache {
	once.Do(func() {
		instance = NewCache()
	})
	return instance
}

// NewCache creates a new Cache instance.
func NewCache() *Cache {
	return &Cache{}
}

// cacheItem holds a value and its expiration time.
type cacheItem struct {
	Value     interface{}
	ExpiresAt int64 // Unix timestamp in nanoseconds; 0 means no expiration
}

// Set stores a value for a key with an optional TTL (in seconds) and optional
// tags. If ttl is 0, the value does not expire.
func (c *Cache) Set(key, value interface{}, ttl int64, tags []string) {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(time.Duration(ttl) * time.Second).UnixNano()
	}
	c.m.Store(key, cacheItem{Value: value, ExpiresAt: expiresAt})
	if len(tags) > 0 {
		c.TagKey(key, tags)
	}
}

// Get retrieves a value for a key. Returns (value, true) if found and not
// expired, (nil, false) otherwise.
func (c *Cache) Get(key interface{}) (interface{}, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false
	}
	if item, isItem := v.(cacheItem); isItem {
		if item.ExpiresAt > 0 && time.Now().UnixNano() > item.ExpiresAt {
			c.Delete(key)
			return nil, false
		}
		return item.Value, true
	}
	// Fallback for restored values (no TTL wrapper)
	return v, true
}

// GetOrDefault retrieves a value for a key, returning defaultValue when absent.
func (c *Cache) GetOrDefault(key, defaultValue interface{}) interface{} {
	if v, ok := c.Get(key); ok {
		return v
	}
	return defaultValue
}

// Delete removes a key from the cache and from every tag it was assigned to.
func (c *Cache) Delete(key interface{}) {
	c.m.Delete(key)
	c.tagIndex.Range(func(_, val interface{}) bool {
		val.(*sync.Map).Delete(key)
		return true
	})
}

// DeleteMany removes multiple keys from the cache.
func (c *Cache) DeleteMany(keys ...interface{}) {
	for _, key := range keys {
		c.Delete(key)
	}
}

func makeCompositeKey(keys ...interface{}) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%v", k)
	}
	return strings.Join(parts, "|")
}

// SetN stores a value for a composite key.
func (c *Cache) SetN(keys []interface{}, value interface{}, ttl int64, tags []string) {
	c.Set(makeCompositeKey(keys...), value, ttl, tags)
}

// GetN retrieves a value for a composite key.
func (c *Cache) GetN(keys ...interface{}) (interface{}, bool) {
	return c.Get(makeCompositeKey(keys...))
}

func (c *Cache) DeleteN(keys ...interface{}) {
	c.Delete(makeCompositeKey(keys...))
}

// GetMany retrieves values for multiple keys. If a key is not found (or
// expired), the corresponding value is nil.
func (c *Cache) GetMany(keys ...interface{}) []interface{} {
	results := make([]interface{}, len(keys))
	for i, key := range keys {
		if v, ok := c.Get(key); ok {
			results[i] = v
		}
	}
	return results
}

// IterateFilter returns the values of all entries for which the callback
// returns true.
func (c *Cache) IterateFilter(filter func(key, value interface{}) bool) []interface{} {
	var results []interface{}
	c.m.Range(func(key, value interface{}) bool {
		if filter(key, value) {
			if item, ok := value.(cacheItem); ok {
				results = append(results, item.Value)
			} else {
				results = append(results, value)
			}
		}
		return true
	})
	return results
}

// TagKey assigns one or more tags to a cache key.
func (c *Cache) TagKey(key interface{}, tags []string) {
	for _, tag := range tags {
		val, _ := c.tagIndex.LoadOrStore(tag, &sync.Map{})
		val.(*sync.Map).Store(key, struct{}{})
	}
}

// UntagKey removes one or more tags from a cache key.
func (c *Cache) UntagKey(key interface{}, tags []string) {
	for _, tag := range tags {
		if val, ok := c.tagIndex.Load(tag); ok {
			val.(*sync.Map).Delete(key)
		}
	}
}

// GetKeysByTag returns all keys assigned to a tag.
func (c *Cache) GetKeysByTag(tag string) []interface{} {
	var keys []interface{}
	if val, ok := c.tagIndex.Load(tag); ok {
		val.(*sync.Map).Range(func(key, _ interface{}) bool {
			keys = append(keys, key)
			return true
		})
	}
	return keys
}

// DeleteByTag deletes all cache entries assigned to a tag.
func (c *Cache) DeleteByTag(tag string) {
	if val, ok := c.tagIndex.Load(tag); ok {
		km := val.(*sync.Map)
		km.Range(func(key, _ interface{}) bool {
			c.m.Delete(key)
			km.Delete(key)
			return true
		})
		c.tagIndex.Delete(tag)
	}
}

// DumpToFile saves all live cache values to a file as JSON.
func (c *Cache) DumpToFile(filename string) error {
	m := make(map[string]interface{})
	now := time.Now().UnixNano()
	c.m.Range(func(key, value interface{}) bool {
		if item, ok := value.(cacheItem); ok {
			if item.ExpiresAt == 0 || item.ExpiresAt > now {
				m[fmt.Sprintf("%v", key)] = item.Value
			}
		} else {
			m[fmt.Sprintf("%v", key)] = value
		}
		return true
	})
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// RestoreFromFile loads key-values from a file and populates the cache.
// Restored values carry no TTL.
func (c *Cache) RestoreFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	m := make(map[string]interface{})
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for k, v := range m {
		c.m.Store(k, v)
	}
	return nil
}
