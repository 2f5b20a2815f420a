package notify

import (
	"context"
	"sync"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
	gate chan struct{}
}

func (s *recordingSender) Send(ctx context.Context, msg Message) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *recordingSender) messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}
