// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package selq

import "sync"

// readers is the per-source registry of interested wakers.
//
// The registry has its own lock, independent of the source's data lock.
// Lock order across the package is: Select registration lock, then
// registry lock, then Select state lock. Sources call notify only after
// releasing their data lock.
type readers struct {
	mu  sync.Mutex
	set map[Waker]struct{}
}

func (r *readers) register(w Waker) {
	r.mu.Lock()
	if r.set == nil {
		r.set = make(map[Waker]struct{})
	}
	r.set[w] = struct{}{}
	r.mu.Unlock()
}

func (r *readers) unregister(w Waker) {
	r.mu.Lock()
	delete(r.set, w)
	r.mu.Unlock()
}

// notify wakes every registered waker.
//
// notify always takes mu. A waker registers before it first checks the
// source, and the source's write happens before notify, so a waker that
// missed the write is in the set by the time notify reads it.
func (r *readers) notify() {
	r.mu.Lock()
	for w := range r.set {
		w.Wake()
	}
	r.mu.Unlock()
}

func (r *readers) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.set)
}
