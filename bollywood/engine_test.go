package bollywood

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type echoActor struct {
	mu       sync.Mutex
	received []interface{}
	started  bool
	stopped  bool
}

func (a *echoActor) Receive(ctx Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.received = append(a.received, ctx.Message())

	switch msg := ctx.Message().(type) {
	case Started:
		a.started = true
	case Stopped:
		a.stopped = true
	case string:
		if ctx.RequestID() != "" {
			ctx.Reply("echo: " + msg)
		}
	case error:
		if ctx.RequestID() != "" {
			ctx.Reply(msg)
		}
	}
}

func (a *echoActor) snapshot() (started, stopped bool, count int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started, a.stopped, len(a.received)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestEngine_SpawnDeliversStarted(t *testing.T) {
	engine := NewEngine()
	defer engine.Shutdown(time.Second)

	actor := &echoActor{}
	pid := engine.Spawn(NewProps(func() Actor { return actor }))
	if pid == nil {
		t.Fatal("expected a PID from Spawn")
	}

	waitFor(t, time.Second, func() bool {
		started, _, _ := actor.snapshot()
		return started
	})
}

func TestEngine_SendDeliversInOrder(t *testing.T) {
	engine := NewEngine()
	defer engine.Shutdown(time.Second)

	actor := &echoActor{}
	pid := engine.Spawn(NewProps(func() Actor { return actor }))

	engine.Send(pid, "one", nil)
	engine.Send(pid, "two", nil)
	engine.Send(pid, "three", nil)

	waitFor(t, time.Second, func() bool {
		_, _, count := actor.snapshot()
		return count >= 4 // Started + three strings
	})

	actor.mu.Lock()
	defer actor.mu.Unlock()
	got := make([]string, 0, 3)
	for _, msg := range actor.received {
		if s, ok := msg.(string); ok {
			got = append(got, s)
		}
	}
	want := []string{"one", "two", "three"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("message order broken: got %v", got)
		}
	}
}

func TestEngine_AskRoundTrip(t *testing.T) {
	engine := NewEngine()
	defer engine.Shutdown(time.Second)

	pid := engine.Spawn(NewProps(func() Actor { return &echoActor{} }))

	reply, err := engine.Ask(pid, "ping", time.Second)
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if reply != "echo: ping" {
		t.Fatalf("unexpected reply: %v", reply)
	}
}

func TestEngine_AskErrorReplyBecomesError(t *testing.T) {
	engine := NewEngine()
	defer engine.Shutdown(time.Second)

	pid := engine.Spawn(NewProps(func() Actor { return &echoActor{} }))

	wantErr := errors.New("boom")
	_, err := engine.Ask(pid, wantErr, time.Second)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected the replied error back, got %v", err)
	}
}

func TestEngine_AskTimesOutWithoutReply(t *testing.T) {
	engine := NewEngine()
	defer engine.Shutdown(time.Second)

	// echoActor only replies to strings; an int never gets a reply.
	pid := engine.Spawn(NewProps(func() Actor { return &echoActor{} }))

	_, err := engine.Ask(pid, 42, 50*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestEngine_StopDeliversLifecycle(t *testing.T) {
	engine := NewEngine()
	defer engine.Shutdown(time.Second)

	actor := &echoActor{}
	pid := engine.Spawn(NewProps(func() Actor { return actor }))

	waitFor(t, time.Second, func() bool {
		started, _, _ := actor.snapshot()
		return started
	})

	engine.Stop(pid)

	waitFor(t, time.Second, func() bool {
		_, stopped, _ := actor.snapshot()
		return stopped
	})
}

func TestEngine_SendToNilPIDIsNoOp(t *testing.T) {
	engine := NewEngine()
	defer engine.Shutdown(time.Second)

	engine.Send(nil, "lost", nil) // must not panic
}

type panicActor struct{}

func (a *panicActor) Receive(ctx Context) {
	if _, ok := ctx.Message().(string); ok {
		panic("deliberate")
	}
}

func TestEngine_ActorPanicIsRecovered(t *testing.T) {
	engine := NewEngine()
	defer engine.Shutdown(time.Second)

	pid := engine.Spawn(NewProps(func() Actor { return &panicActor{} }))

	engine.Send(pid, "explode", nil)
	time.Sleep(50 * time.Millisecond)

	// The mailbox must keep draining after the panic.
	_, err := engine.Ask(pid, 1, 50*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("actor should still be alive and silently ignore the int: %v", err)
	}
}

func TestEngine_AskPanicRepliesError(t *testing.T) {
	engine := NewEngine()
	defer engine.Shutdown(time.Second)

	pid := engine.Spawn(NewProps(func() Actor { return &panicActor{} }))

	_, err := engine.Ask(pid, "explode", time.Second)
	if err == nil {
		t.Fatal("expected an error reply when the actor panics during an Ask")
	}
}
