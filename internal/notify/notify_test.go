package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubSender struct {
	mu    sync.Mutex
	sent  map[int64][]string
	err   error
	block chan struct{}
}

func (s *stubSender) SendMessage(chatID int64, text string) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sent == nil {
		s.sent = make(map[int64][]string)
	}
	s.sent[chatID] = append(s.sent[chatID], text)
	return s.err
}

func TestNotify_Sends(t *testing.T) {
	s := &stubSender{}
	l := NewLimited(s, 10, time.Second)

	if err := l.Notify(context.Background(), 5, "hi"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got := s.sent[5]; len(got) != 1 || got[0] != "hi" {
		t.Fatalf("sent = %v", got)
	}
}

func TestNotify_PropagatesSendError(t *testing.T) {
	want := errors.New("forbidden: bot was blocked by the user")
	l := NewLimited(&stubSender{err: want}, 10, time.Second)

	if err := l.Notify(context.Background(), 5, "hi"); !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestNotify_TimesOut(t *testing.T) {
	s := &stubSender{block: make(chan struct{})}
	defer close(s.block)
	l := NewLimited(s, 10, 20*time.Millisecond)

	start := time.Now()
	err := l.Notify(context.Background(), 5, "hi")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("timeout not enforced")
	}
}

func TestNotify_CanceledContext(t *testing.T) {
	l := NewLimited(&stubSender{}, 1, time.Second)
	// Drain the single burst token so Wait has to block.
	if err := l.Notify(context.Background(), 1, "first"); err != nil {
		t.Fatalf("first Notify: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Notify(ctx, 1, "second"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
