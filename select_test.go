// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package selq_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/selq"
)

// =============================================================================
// Select - Basic Operations
// =============================================================================

// TestSelectNoTargets tests that Join and Read fail on an empty Select.
func TestSelectNoTargets(t *testing.T) {
	s := selq.NewSelect[int]()

	if _, err := s.Join(context.Background()); !errors.Is(err, selq.ErrNoTargets) {
		t.Fatalf("Join: got %v, want ErrNoTargets", err)
	}
	if _, err := s.Read(context.Background()); !errors.Is(err, selq.ErrNoTargets) {
		t.Fatalf("Read: got %v, want ErrNoTargets", err)
	}
}

// TestSelectRegistrationOrder tests that the first ready source in
// registration order wins when several are ready.
func TestSelectRegistrationOrder(t *testing.T) {
	ctx := context.Background()
	a, _ := selq.NewBounded[string](4)
	b := selq.NewUnbounded[string]()
	c, _ := selq.NewBounded[string](4)
	s := selq.NewSelect[string](a, b, c)
	defer s.Close()

	c.Offer("c1")
	b.Offer("b1")

	src, err := s.Join(ctx)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if src != selq.Source[string](b) {
		t.Fatalf("Join: got %T %p, want b", src, src)
	}

	a.Offer("a1")
	var got []string
	for range 3 {
		v, err := s.Read(ctx)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		got = append(got, v)
	}
	if want := []string{"a1", "b1", "c1"}; !slices.Equal(got, want) {
		t.Fatalf("Read order: got %v, want %v", got, want)
	}
}

// TestSelectAddRemove tests target set management.
func TestSelectAddRemove(t *testing.T) {
	a := selq.NewUnbounded[int]()
	b := selq.NewUnbounded[int]()
	s := selq.NewSelect[int]()

	s.Add(a)
	s.Add(b)
	s.Add(a) // duplicate is a no-op
	if s.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", s.Len())
	}
	if got := slices.Collect(s.All()); len(got) != 2 || got[0] != selq.Source[int](a) || got[1] != selq.Source[int](b) {
		t.Fatalf("All: got %v, want [a b]", got)
	}

	s.Remove(a)
	s.Remove(a) // absent is a no-op
	if s.Len() != 1 {
		t.Fatalf("Len after Remove: got %d, want 1", s.Len())
	}

	// A removed source no longer satisfies Read
	a.Offer(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.Read(ctx); !errors.Is(err, selq.ErrInterrupted) {
		t.Fatalf("Read with only removed source ready: got %v, want ErrInterrupted", err)
	}
	if a.Size() != 1 {
		t.Fatalf("removed source was drained: Size %d", a.Size())
	}

	s.Close()
	if s.Len() != 0 {
		t.Fatalf("Len after Close: got %d, want 0", s.Len())
	}
	if _, err := s.Join(context.Background()); !errors.Is(err, selq.ErrNoTargets) {
		t.Fatalf("Join after Close: got %v, want ErrNoTargets", err)
	}

	// A closed Select can be rewired
	s.Add(a)
	if v, err := s.Read(context.Background()); err != nil || v != 1 {
		t.Fatalf("Read after re-Add: got (%d, %v), want (1, nil)", v, err)
	}
}

// TestSelectWakesOnPut tests that a consumer blocked in Join wakes when a
// producer writes to any registered source, without a polling delay.
func TestSelectWakesOnPut(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sources := []selq.Queue[int]{
		func() selq.Queue[int] { q, _ := selq.NewBounded[int](2); return q }(),
		selq.NewUnbounded[int](),
	}
	for i, target := range sources {
		s := selq.NewSelect[int]()
		for _, q := range sources {
			s.Add(q)
		}

		go func() {
			time.Sleep(30 * time.Millisecond)
			target.Offer(i + 10)
		}()

		start := time.Now()
		v, err := s.Read(ctx)
		if err != nil || v != i+10 {
			t.Fatalf("Read: got (%d, %v), want (%d, nil)", v, err, i+10)
		}
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Fatalf("Read woke after %v", elapsed)
		}
		if s.Wakeups() == 0 {
			t.Fatalf("Wakeups: got 0, want > 0")
		}
		s.Close()
	}
}

// TestSelectCancel tests that a blocked Join can be cancelled.
func TestSelectCancel(t *testing.T) {
	s := selq.NewSelect[int](selq.NewUnbounded[int]())
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := s.Join(ctx)
		errc <- err
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, selq.ErrInterrupted) || !errors.Is(err, context.Canceled) {
			t.Fatalf("Join: got %v, want ErrInterrupted wrapping Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Join did not return after cancel")
	}
}

// TestSelectCloseWakesJoin tests that Close releases a blocked Join.
func TestSelectCloseWakesJoin(t *testing.T) {
	s := selq.NewSelect[int](selq.NewUnbounded[int]())

	errc := make(chan error, 1)
	go func() {
		_, err := s.Join(context.Background())
		errc <- err
	}()
	time.Sleep(10 * time.Millisecond)
	s.Close()

	select {
	case err := <-errc:
		if !errors.Is(err, selq.ErrNoTargets) {
			t.Fatalf("Join: got %v, want ErrNoTargets", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Join did not return after Close")
	}
}

// =============================================================================
// Select - Lists
// =============================================================================

// TestSelectList tests that list mutations wake a Select and that Read
// peeks the list's last element.
func TestSelectList(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l := selq.NewList[string]()
	s := selq.NewSelect[string](l)
	defer s.Close()

	go func() {
		time.Sleep(20 * time.Millisecond)
		l.Append("first", "latest")
	}()

	for range 2 {
		v, err := s.Read(ctx)
		if err != nil || v != "latest" {
			t.Fatalf("Read: got (%q, %v), want (latest, nil)", v, err)
		}
	}
	if l.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", l.Len())
	}
}

// TestListReadBlocks tests the list's own blocking Read.
func TestListReadBlocks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	l := selq.NewList[int]()

	const readers = 3
	results := make(chan int, readers)
	for range readers {
		go func() {
			v, err := l.Read(ctx)
			if err != nil {
				t.Errorf("Read: %v", err)
			}
			results <- v
		}()
	}

	time.Sleep(20 * time.Millisecond)
	if err := l.Insert(0, 9); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// Every blocked reader observes the element
	for range readers {
		if v := <-results; v != 9 {
			t.Fatalf("Read: got %d, want 9", v)
		}
	}

	short, shortCancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer shortCancel()
	l.Clear()
	if _, err := l.Read(short); !errors.Is(err, selq.ErrInterrupted) {
		t.Fatalf("Read on cleared list: got %v, want ErrInterrupted", err)
	}
}

// =============================================================================
// Select - Fan-in
// =============================================================================

// TestSelectFanIn feeds K sources from independent producers and drains
// them through one Select and one consumer.
func TestSelectFanIn(t *testing.T) {
	const k = 5
	v := scaled(2000)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sources := make([]selq.Queue[int], k)
	s := selq.NewSelect[int]()
	defer s.Close()
	for i := range k {
		if i%2 == 0 {
			sources[i], _ = selq.NewBounded[int](8)
		} else {
			sources[i] = selq.NewUnbounded[int]()
		}
		s.Add(sources[i])
	}

	var wg sync.WaitGroup
	for _, q := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 1; i <= v; i++ {
				if err := q.Put(ctx, i); err != nil {
					t.Errorf("Put: %v", err)
					return
				}
			}
		}()
	}

	var sum int
	for n := range k * v {
		x, err := s.Read(ctx)
		if err != nil {
			t.Fatalf("Read(%d): %v", n, err)
		}
		sum += x
	}
	wg.Wait()

	if want := k * v * (v + 1) / 2; sum != want {
		t.Fatalf("sum: got %d, want %d", sum, want)
	}
	for i, q := range sources {
		if q.Size() != 0 {
			t.Fatalf("source %d: Size %d, want 0", i, q.Size())
		}
	}
}

// TestSelectReadWhileProducing tests a Select reading one source while a
// producer keeps writing to it. Run with -race: readiness checks and
// writes must be ordered by the source's lock.
func TestSelectReadWhileProducing(t *testing.T) {
	const n = 1000
	bq, _ := selq.NewBounded[int](4)
	sources := []struct {
		name string
		q    selq.Queue[int]
	}{
		{"Bounded4", bq},
		{"Unbounded", selq.NewUnbounded[int]()},
	}

	for _, src := range sources {
		t.Run(src.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			sel := selq.NewSelect[int](src.q)
			defer sel.Close()

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range n {
					if err := src.q.Put(ctx, i); err != nil {
						t.Errorf("Put(%d): %v", i, err)
						return
					}
				}
			}()

			for want := range n {
				got, err := sel.Read(ctx)
				if err != nil {
					t.Fatalf("Read: %v", err)
				}
				if got != want {
					t.Fatalf("Read: got %d, want %d", got, want)
				}
			}
			wg.Wait()
			if size := src.q.Size(); size != 0 {
				t.Fatalf("Size: got %d, want 0", size)
			}
		})
	}
}

// TestSelectMultiConsumer shares one Select between several consumers.
// Wakes are hints, so consumers race for items; none may be lost or
// duplicated.
func TestSelectMultiConsumer(t *testing.T) {
	const k, numC = 3, 4
	v := scaled(2000)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s := selq.NewSelect[int]()
	defer s.Close()
	sources := make([]*selq.Bounded[int], k)
	for i := range sources {
		sources[i], _ = selq.NewBounded[int](4)
		s.Add(sources[i])
	}

	var sum, count atomix.Int64
	total := int64(k * v)
	readCtx, stopReaders := context.WithCancel(ctx)
	var consumers sync.WaitGroup
	for range numC {
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			for {
				x, err := s.Read(readCtx)
				if err != nil {
					return
				}
				sum.Add(int64(x))
				if count.AddAcqRel(1) == total {
					stopReaders()
				}
			}
		}()
	}

	var producers sync.WaitGroup
	for _, q := range sources {
		producers.Add(1)
		go func() {
			defer producers.Done()
			for i := 1; i <= v; i++ {
				if err := q.Put(ctx, i); err != nil {
					t.Errorf("Put: %v", err)
					return
				}
			}
		}()
	}
	producers.Wait()
	consumers.Wait()
	stopReaders()

	if count.Load() != total {
		t.Fatalf("count: got %d, want %d", count.Load(), total)
	}
	if want := int64(k * v * (v + 1) / 2); sum.Load() != want {
		t.Fatalf("sum: got %d, want %d", sum.Load(), want)
	}
}

// TestSelectDynamicRemoval removes each source from inside the consumer
// loop once it delivers a terminal value, as a union operator does.
func TestSelectDynamicRemoval(t *testing.T) {
	const k = 4
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := selq.NewSelect[int]()
	defer s.Close()
	for p := range k {
		q, _ := selq.NewBounded[int](2)
		s.Add(q)
		go func() {
			for i := 1; i <= 10; i++ {
				q.Put(ctx, p*100+i)
			}
			q.Put(ctx, -1)
		}()
	}

	var got int
	for s.Len() > 0 {
		src, err := s.Join(ctx)
		if err != nil {
			t.Fatalf("Join: %v", err)
		}
		v, ok := src.TryRead()
		if !ok {
			continue
		}
		if v == -1 {
			s.Remove(src)
			continue
		}
		got++
	}
	if got != k*10 {
		t.Fatalf("values: got %d, want %d", got, k*10)
	}
}
