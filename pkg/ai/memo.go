package ai

import (
	"context"
	"sync"
)

type memoKey struct {
	prompt string
	model  string
}

// MemoClient memoises query results by exact (prompt, model) pair for the
// lifetime of the process. Repeating a question costs nothing; the memo never
// changes what a query would have returned, including error strings.
type MemoClient struct {
	next Client

	mu      sync.Mutex
	entries map[memoKey]string
}

// NewMemoClient wraps next with an explicit result memo.
func NewMemoClient(next Client) *MemoClient {
	return &MemoClient{
		next:    next,
		entries: make(map[memoKey]string),
	}
}

// Query returns the memoised result when the exact pair was asked before,
// otherwise delegates and records the answer.
func (m *MemoClient) Query(ctx context.Context, prompt, model string) string {
	key := memoKey{prompt: prompt, model: model}

	m.mu.Lock()
	if cached, ok := m.entries[key]; ok {
		m.mu.Unlock()
		return cached
	}
	m.mu.Unlock()

	result := m.next.Query(ctx, prompt, model)

	m.mu.Lock()
	m.entries[key] = result
	m.mu.Unlock()

	return result
}
