// Package modcache holds the loaded plugin instances, keyed by account
// and module name. The explicit key and eviction operations guarantee
// that unloading a module for one account never touches another
// account's instance of the same module.
package modcache

import "sync"

// Key identifies one account's instance of one module.
type Key struct {
	AccountID int64
	Module    string
}

// Instance is a loaded, running plugin. Close releases its handlers
// and any resources it allocated.
type Instance interface {
	Close() error
}

// Cache is a process-wide table of loaded plugin instances.
type Cache struct {
	mu        sync.RWMutex
	instances map[Key]Instance
}

func New() *Cache {
	return &Cache{instances: make(map[Key]Instance)}
}

// Put stores an instance, replacing and closing any previous instance
// under the same key.
func (c *Cache) Put(key Key, instance Instance) error {
	c.mu.Lock()
	previous, existed := c.instances[key]
	c.instances[key] = instance
	c.mu.Unlock()

	if existed {
		return previous.Close()
	}
	return nil
}

// Get returns the instance under key, if any.
func (c *Cache) Get(key Key) (Instance, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	instance, ok := c.instances[key]
	return instance, ok
}

// Evict closes and removes the instance under key. Evicting a missing
// key is a no-op.
func (c *Cache) Evict(key Key) error {
	c.mu.Lock()
	instance, ok := c.instances[key]
	delete(c.instances, key)
	c.mu.Unlock()

	if !ok {
		return nil
	}
	return instance.Close()
}

// EvictAccount removes every instance belonging to the account,
// returning the first close error encountered.
func (c *Cache) EvictAccount(accountID int64) error {
	c.mu.Lock()
	evicted := make([]Instance, 0)
	for key, instance := range c.instances {
		if key.AccountID == accountID {
			evicted = append(evicted, instance)
			delete(c.instances, key)
		}
	}
	c.mu.Unlock()

	var firstErr error
	for _, instance := range evicted {
		if err := instance.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Len reports how many instances are loaded.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.instances)
}
