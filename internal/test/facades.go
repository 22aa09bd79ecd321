package test

import (
	"context"
	"sync"
)

// SentMessage records one outbound notification.
type SentMessage struct {
	ChatID int64
	Text   string
}

// SenderStub captures transport sends for assertions.
type SenderStub struct {
	mu     sync.Mutex
	SendFn func(context.Context, int64, string) error
	Sent   []SentMessage
}

// Send records the message or delegates to the override.
func (s *SenderStub) Send(ctx context.Context, chatID int64, text string) error {
	if s.SendFn != nil {
		return s.SendFn(ctx, chatID, text)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, SentMessage{ChatID: chatID, Text: text})
	return nil
}

// Messages returns a copy of recorded sends.
func (s *SenderStub) Messages() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentMessage, len(s.Sent))
	copy(out, s.Sent)
	return out
}

// ExpirerStub feeds the session janitor with scripted expiry batches.
type ExpirerStub struct {
	mu      sync.Mutex
	Batches [][]int64
	calls   int
}

// ExpireStale returns the next scripted batch, then nothing.
func (s *ExpirerStub) ExpireStale() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls < len(s.Batches) {
		batch := s.Batches[s.calls]
		s.calls++
		return batch
	}
	return nil
}
