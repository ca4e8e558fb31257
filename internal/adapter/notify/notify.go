package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/port"
)

// LogNotifier writes every notification to the standard logger.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier logs through logger, or the standard logger when nil.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, note domain.Notification) {
	n.logger.Printf("notify: %s %s: %s", note.Level, note.Op, note.Message)
}

// WriterNotifier prints the message alone, one per line. The CLI uses it for
// human-readable feedback.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(_ context.Context, note domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if note.Level == domain.NotificationSuccess {
		fmt.Fprintln(n.w, note.Message)
		return
	}
	fmt.Fprintf(n.w, "%s: %s\n", note.Level, note.Message)
}

// MetricsNotifier counts notifications by operation and level.
type MetricsNotifier struct {
	total *prometheus.CounterVec
}

// NewMetricsNotifier registers stockroom_notifications_total with reg.
func NewMetricsNotifier(reg prometheus.Registerer) (*MetricsNotifier, error) {
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockroom",
		Name:      "notifications_total",
		Help:      "User-facing operation outcomes by operation and level.",
	}, []string{"op", "level"})

	if err := reg.Register(total); err != nil {
		return nil, fmt.Errorf("register notification metrics: %w", err)
	}
	return &MetricsNotifier{total: total}, nil
}

func (n *MetricsNotifier) Notify(_ context.Context, note domain.Notification) {
	n.total.WithLabelValues(note.Op, string(note.Level)).Inc()
}

// Multi fans a notification out to every notifier in order.
type Multi []port.Notifier

func (m Multi) Notify(ctx context.Context, note domain.Notification) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, note)
		}
	}
}

var (
	_ port.Notifier = (*LogNotifier)(nil)
	_ port.Notifier = (*WriterNotifier)(nil)
	_ port.Notifier = (*MetricsNotifier)(nil)
	_ port.Notifier = Multi(nil)
)
