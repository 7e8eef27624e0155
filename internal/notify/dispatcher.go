package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	queueSize   = 100
	sendTimeout = 30 * time.Second
)

type Email struct {
	To      string
	Subject string
	Body    string
}

// Dispatcher sends queued emails from one background worker. When the queue
// is full the email is dropped.
type Dispatcher struct {
	mailer Mailer
	queue  chan Email
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(mailer Mailer) *Dispatcher {
	d := &Dispatcher{
		mailer: mailer,
		queue:  make(chan Email, queueSize),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for e := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.mailer.Send(ctx, e.To, e.Subject, e.Body); err != nil {
			zap.L().Warn("email delivery failed",
				zap.String("to", e.To),
				zap.String("subject", e.Subject),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Send queues e. A nil or closed dispatcher and an empty recipient are
// no-ops.
func (d *Dispatcher) Send(e Email) {
	if d == nil || e.To == "" {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		zap.L().Warn("email dispatcher closed, dropping", zap.String("to", e.To))
		return
	}

	select {
	case d.queue <- e:
	default:
		zap.L().Warn("email queue full, dropping", zap.String("to", e.To))
	}
}

// Close stops accepting emails and waits for the queue to drain. Calling it
// again is a no-op.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}
