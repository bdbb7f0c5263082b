package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type captureSender struct {
	mu       sync.Mutex
	messages map[string][]string
	delay    time.Duration
}

func newCaptureSender() *captureSender {
	return &captureSender{messages: make(map[string][]string)}
}

func (s *captureSender) Send(_ context.Context, userID, message string) error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[userID] = append(s.messages[userID], message)
	return nil
}

func (s *captureSender) got(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.messages[userID]))
	copy(out, s.messages[userID])
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestDispatcher_DeliversToSender(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := newCaptureSender()
	d := NewDispatcher(4, sender, zerolog.Nop())
	d.Start(ctx)

	d.Notify(ctx, "u1", "hello")
	d.Notify(ctx, "u2", "world")

	waitFor(t, func() bool {
		return len(sender.got("u1")) == 1 && len(sender.got("u2")) == 1
	})
}

func TestDispatcher_PerRecipientOrdering(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := newCaptureSender()
	d := NewDispatcher(4, sender, zerolog.Nop())
	d.Start(ctx)

	d.Notify(ctx, "u1", "first")
	d.Notify(ctx, "u1", "second")
	d.Notify(ctx, "u1", "third")

	waitFor(t, func() bool { return len(sender.got("u1")) == 3 })

	got := sender.got("u1")
	if got[0] != "first" || got[1] != "second" || got[2] != "third" {
		t.Errorf("per-recipient order lost: %v", got)
	}
}

func TestDispatcher_NotifyNeverBlocks(t *testing.T) {
	// Workers not started: queues fill up, further notifications drop.
	d := NewDispatcher(1, newCaptureSender(), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Notify(context.Background(), "u1", "m")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a full queue")
	}
}
