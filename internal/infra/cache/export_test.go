package cache

import "time"

// SetClock replaces the time source used for expiry.
func (c *InMemory[T]) SetClock(now func() time.Time) { c.now = now }

// Sweep runs one expiry pass.
func (c *InMemory[T]) Sweep() int { return c.sweep() }
