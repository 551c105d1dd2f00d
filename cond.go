// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package selq

import (
	"context"
	"sync"
)

// cond is a condition variable whose Wait can be abandoned through a
// context. Waiters are woken in FIFO order.
//
// All methods must be called with L held.
type cond struct {
	L       sync.Locker
	waiters []chan struct{}
}

// Wait atomically unlocks L and suspends the caller until Signal or
// Broadcast wakes it or ctx ends. L is locked again before Wait returns.
//
// A waiter that is signalled and cancelled at the same time passes the
// signal on to the next waiter, so cancellation never swallows a wakeup.
func (c *cond) Wait(ctx context.Context) error {
	ch := make(chan struct{}, 1)
	c.waiters = append(c.waiters, ch)
	c.L.Unlock()

	select {
	case <-ch:
		c.L.Lock()
		return nil
	case <-ctx.Done():
		c.L.Lock()
		if !c.remove(ch) {
			c.Signal()
		}
		return interrupted(ctx)
	}
}

// Signal wakes the longest waiting goroutine, if any.
func (c *cond) Signal() {
	if len(c.waiters) == 0 {
		return
	}
	ch := c.waiters[0]
	c.waiters[0] = nil
	c.waiters = c.waiters[1:]
	ch <- struct{}{}
}

// Broadcast wakes all waiting goroutines.
func (c *cond) Broadcast() {
	for _, ch := range c.waiters {
		ch <- struct{}{}
	}
	c.waiters = nil
}

// remove drops ch from the wait list and reports whether it was there.
func (c *cond) remove(ch chan struct{}) bool {
	for i, w := range c.waiters {
		if w == ch {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return true
		}
	}
	return false
}
