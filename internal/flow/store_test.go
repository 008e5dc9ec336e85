package flow_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kstobd/DriveNext/internal/flow"
)

type counterState struct {
	N int
}

type counterEvent struct{}

type counterEffect struct {
	Tag string
}

func newCounter() *flow.Store[counterState, counterEvent, counterEffect] {
	return flow.New(counterState{}, func(ctx context.Context, st *flow.Store[counterState, counterEvent, counterEffect], ev counterEvent) {
		st.Update(func(s counterState) counterState {
			s.N++
			return s
		})
	})
}

func TestUpdateSingleWriter(t *testing.T) {
	st := newCounter()
	const workers = 8
	const perWorker = 500

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				st.Update(func(s counterState) counterState {
					s.N++
					return s
				})
			}
		}()
	}
	wg.Wait()

	if got := st.State().N; got != workers*perWorker {
		t.Fatalf("lost updates: want %d, got %d", workers*perWorker, got)
	}
}

func TestSubscribeReceivesLatestSnapshot(t *testing.T) {
	st := newCounter()
	st.Dispatch(context.Background(), counterEvent{})
	st.Dispatch(context.Background(), counterEvent{})

	ch, cancel := st.Subscribe()
	defer cancel()

	select {
	case s := <-ch:
		if s.N != 2 {
			t.Fatalf("want snapshot N=2 on attach, got %d", s.N)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered on subscribe")
	}

	st.Dispatch(context.Background(), counterEvent{})
	select {
	case s := <-ch:
		if s.N != 3 {
			t.Fatalf("want update N=3, got %d", s.N)
		}
	case <-time.After(time.Second):
		t.Fatal("no update delivered after dispatch")
	}
}

func TestSubscribeConflatesForSlowObserver(t *testing.T) {
	st := newCounter()
	ch, cancel := st.Subscribe()
	defer cancel()
	<-ch // drain the initial snapshot

	// Nobody reading: intermediate states must be conflated, not queued.
	for i := 0; i < 10; i++ {
		st.Dispatch(context.Background(), counterEvent{})
	}

	select {
	case s := <-ch:
		if s.N != 10 {
			t.Fatalf("want latest snapshot N=10, got %d", s.N)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestEffectAtMostOnce(t *testing.T) {
	st := flow.New(counterState{}, func(ctx context.Context, st *flow.Store[counterState, counterEvent, counterEffect], ev counterEvent) {
		st.Emit(counterEffect{Tag: "navigate"})
	})

	st.Dispatch(context.Background(), counterEvent{})

	select {
	case eff := <-st.Effects():
		if eff.Tag != "navigate" {
			t.Fatalf("unexpected effect %+v", eff)
		}
	case <-time.After(time.Second):
		t.Fatal("effect not delivered to the consumer")
	}

	// Consumed effects are gone: a later read must not see a replay.
	select {
	case eff := <-st.Effects():
		t.Fatalf("effect re-delivered: %+v", eff)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEffectOrderPreserved(t *testing.T) {
	st := flow.New(counterState{}, func(ctx context.Context, st *flow.Store[counterState, counterEvent, counterEffect], ev counterEvent) {
		st.Emit(counterEffect{Tag: "first"})
		st.Emit(counterEffect{Tag: "second"})
	})
	st.Dispatch(context.Background(), counterEvent{})

	if eff := <-st.Effects(); eff.Tag != "first" {
		t.Fatalf("want first, got %q", eff.Tag)
	}
	if eff := <-st.Effects(); eff.Tag != "second" {
		t.Fatalf("want second, got %q", eff.Tag)
	}
}

func TestEmitDropsWhenQueueFull(t *testing.T) {
	st := flow.New(counterState{}, func(ctx context.Context, st *flow.Store[counterState, counterEvent, counterEffect], ev counterEvent) {})

	// No consumer attached: emits past the bound are dropped, never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			st.Emit(counterEffect{Tag: "noise"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked with no consumer")
	}
}

func TestSubscribeAfterCloseTerminates(t *testing.T) {
	st := newCounter()
	st.Dispatch(context.Background(), counterEvent{})
	st.Close()

	ch, cancel := st.Subscribe()
	defer cancel()

	// Final snapshot first, then a closed channel so a ranging consumer
	// does not hang on a store that will never update again.
	select {
	case s, ok := <-ch:
		if !ok {
			t.Fatal("final snapshot missing")
		}
		if s.N != 1 {
			t.Fatalf("want final snapshot N=1, got %d", s.N)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered on subscribe after close")
	}
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("unexpected extra snapshot after close")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed for post-close subscriber")
	}
}

func TestResult(t *testing.T) {
	r := flow.Loading[int]()
	if !r.IsLoading() {
		t.Fatal("want loading")
	}
	if _, ok := r.Value(); ok {
		t.Fatal("loading result must not expose a value")
	}

	r = flow.Ok(42)
	if v, ok := r.Value(); !ok || v != 42 {
		t.Fatalf("want 42, got %v ok=%v", v, ok)
	}

	r = flow.Fail[int](context.Canceled)
	if r.Err() != context.Canceled {
		t.Fatalf("want error preserved, got %v", r.Err())
	}
}
