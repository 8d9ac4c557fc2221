// Package notify delivers out-of-band alerts for unauthorized scans.
// Delivery is best-effort: one attempt per event, failures are logged and
// never retried or surfaced to the ingestion path.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gatelog/internal/gatelog/types"
)

const (
	defaultQueueSize = 64

	// sendTimeout bounds a single delivery attempt.
	sendTimeout = 10 * time.Second
)

// Sender is one alert transport: LINE push, a Kafka topic, or the log.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Notifier queues unauthorized scans and delivers them from a single
// background worker.  Enqueueing never blocks: when the queue is full the
// alert is dropped with a warning rather than stalling ingestion.
type Notifier struct {
	sender Sender
	logger *slog.Logger
	queue  chan types.ScanRequest
	done   chan struct{}
}

func New(sender Sender, logger *slog.Logger, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Notifier{
		sender: sender,
		logger: logger,
		queue:  make(chan types.ScanRequest, queueSize),
		done:   make(chan struct{}),
	}
}

// Run drains the queue until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) {
	defer close(n.done)
	for {
		select {
		case scan := <-n.queue:
			n.deliver(ctx, scan)
		case <-ctx.Done():
			return
		}
	}
}

// Done is closed once the worker has exited.
func (n *Notifier) Done() <-chan struct{} {
	return n.done
}

// NotifyUnauthorized hands a scan to the worker and returns immediately.
func (n *Notifier) NotifyUnauthorized(scan types.ScanRequest) {
	select {
	case n.queue <- scan:
	default:
		n.logger.Warn("alert queue full, dropping alert", "uid", scan.UID)
	}
}

func (n *Notifier) deliver(ctx context.Context, scan types.ScanRequest) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := n.sender.Send(sendCtx, FormatAlert(scan)); err != nil {
		n.logger.Error("alert delivery failed", "uid", scan.UID, "err", err)
		return
	}
	n.logger.Info("alert delivered", "uid", scan.UID)
}

// FormatAlert renders the human-readable alert text for one unauthorized
// scan.
func FormatAlert(scan types.ScanRequest) string {
	return fmt.Sprintf(
		"Unauthorized badge scan!\nUID: %s\nDirection: %s\nTime: %s\nDevice: %s",
		scan.UID, scan.Direction, scan.DeviceTime, scan.DeviceName,
	)
}
