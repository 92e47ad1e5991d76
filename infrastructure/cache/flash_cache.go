package cache

import "sync"

// Notice is a one-shot user-facing message carried across a redirect.
type Notice struct {
	Severity string
	Title    string
	Body     string
}

// FlashCache queues notices per browser token. Drain removes and returns
// the queue atomically so each notice is shown exactly once.
type FlashCache struct {
	mu      sync.Mutex
	notices map[string][]Notice
}

func NewFlashCache() *FlashCache {
	return &FlashCache{notices: make(map[string][]Notice)}
}

func (c *FlashCache) Push(token string, n Notice) {
	if token == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices[token] = append(c.notices[token], n)
}

func (c *FlashCache) Drain(token string) []Notice {
	if token == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	queued := c.notices[token]
	delete(c.notices, token)
	return queued
}
