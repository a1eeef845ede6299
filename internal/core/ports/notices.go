package ports

import "github.com/growthzi/dashboard/internal/core/domain"

// NoticeQueue holds notices until the next view is rendered.
type NoticeQueue interface {
	Push(n domain.Notice)
	Drain() []domain.Notice
}
