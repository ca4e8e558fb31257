package port

import (
	"context"

	"github.com/rl1809/stockroom/internal/core/domain"
)

type Notifier interface {
	// Notify reports the outcome of one user-facing operation
	Notify(ctx context.Context, n domain.Notification)
}
