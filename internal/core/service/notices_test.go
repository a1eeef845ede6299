package service

import (
	"fmt"
	"testing"

	"github.com/growthzi/dashboard/internal/core/domain"
)

func TestNotices_DrainInOrder(t *testing.T) {
	n := NewNotices()
	n.Push(domain.SuccessNotice("one"))
	n.Push(domain.ErrorNotice("two"))

	got := n.Drain()
	if len(got) != 2 || got[0].Message != "one" || got[1].Message != "two" {
		t.Fatalf("unexpected notices %+v", got)
	}
	if again := n.Drain(); len(again) != 0 {
		t.Fatalf("drain must clear the queue, got %+v", again)
	}
}

func TestNotices_DropsOldest(t *testing.T) {
	n := NewNotices()
	for i := 0; i < maxPendingNotices+3; i++ {
		n.Push(domain.ErrorNotice(fmt.Sprint(i)))
	}

	got := n.Drain()
	if len(got) != maxPendingNotices {
		t.Fatalf("expected %d notices, got %d", maxPendingNotices, len(got))
	}
	if got[0].Message != "3" {
		t.Fatalf("oldest notices should be dropped first, got %q", got[0].Message)
	}
}
