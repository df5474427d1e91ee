package memo

import (
	"context"
	"sync"

	"github.com/hyperifyio/memogen/internal/llm"
)

// stubClient counts calls and delegates to fn, or echoes the user prompt.
type stubClient struct {
	mu    sync.Mutex
	calls int
	reqs  []llm.Request
	fn    func(ctx context.Context, req llm.Request) (string, error)
}

func (s *stubClient) Generate(ctx context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	s.calls++
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()
	if s.fn != nil {
		return s.fn(ctx, req)
	}
	return req.User, nil
}

func (s *stubClient) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type staticSource struct {
	text string
	err  error
}

func (s staticSource) Text(context.Context, string) (string, error) { return s.text, s.err }

type noticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

func (l *noticeLog) Notify(n Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, n)
}

func (l *noticeLog) bySource(src string) []Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Notice
	for _, n := range l.notices {
		if n.Source == src {
			out = append(out, n)
		}
	}
	return out
}
