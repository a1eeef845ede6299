package service

import (
	"sync"

	"github.com/growthzi/dashboard/internal/core/domain"
)

const maxPendingNotices = 32

// Notices is the queue of messages waiting to be shown to the user.
type Notices struct {
	mu      sync.Mutex
	pending []domain.Notice
}

func NewNotices() *Notices {
	return &Notices{}
}

// Push queues a notice. The oldest notice is dropped when the queue is full.
func (n *Notices) Push(notice domain.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.pending) >= maxPendingNotices {
		n.pending = n.pending[1:]
	}
	n.pending = append(n.pending, notice)
}

// Drain returns and clears all pending notices in arrival order.
func (n *Notices) Drain() []domain.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = nil
	return out
}
