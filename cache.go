package inaspects

import (
	"sync"
)

// aspectCache maps aspect keys (by reference identity) to applied aspect
// instances. Each control owns exactly one cache and is the only mutator.
// The first stored instance for a key wins, so repeated lookups always
// observe the same instance, including cached absent (nil) results.
type aspectCache struct {
	data sync.Map
}

func (c *aspectCache) load(key AnyAspectKey) (any, bool) {
	return c.data.Load(key)
}

// store records an applied aspect and returns the instance that ended up
// cached, which may be a previously stored one.
func (c *aspectCache) store(key AnyAspectKey, value any) any {
	actual, _ := c.data.LoadOrStore(key, value)
	return actual
}

func (c *aspectCache) forEach(fn func(key AnyAspectKey, value any) bool) {
	c.data.Range(func(key, value any) bool {
		return fn(key.(AnyAspectKey), value)
	})
}

func (c *aspectCache) size() int {
	count := 0
	c.data.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}
