package audit

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

type Action string

const (
	ActionShopCreated          Action = "shop_created"
	ActionShopRestored         Action = "shop_restored"
	ActionShopEdited           Action = "shop_edited"
	ActionShopDeleted          Action = "shop_deleted"
	ActionShopImageUploaded    Action = "shop_image_uploaded"
	ActionOwnerPromoted        Action = "owner_promoted"
	ActionOwnerDemoted         Action = "owner_demoted"
	ActionBarberAssigned       Action = "barber_assigned"
	ActionBarberUnassigned     Action = "barber_unassigned"
	ActionAvailabilityChanged  Action = "availability_changed"
	ActionServiceAdded         Action = "service_added"
	ActionServiceRemoved       Action = "service_removed"
	ActionBarberCreated        Action = "barber_created"
	ActionBarberDeleted        Action = "barber_deleted"
	ActionAccountDeleted       Action = "account_deleted"
	ActionOrderBooked          Action = "order_booked"
	ActionOrderCancelled       Action = "order_cancelled"
	ActionOrderCancelledBarber Action = "order_cancelled_by_barber"
)

type Event struct {
	BarbershopID *uint
	UserID       *uint
	Action       Action
	Entity       string
	EntityID     string
	Metadata     any
}

// ID formats a numeric primary key for Event.EntityID.
func ID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Ptr is a helper for the optional id fields of Event.
func Ptr(id uint) *uint {
	return &id
}

type Dispatcher struct {
	logger *Logger
	queue  chan Event
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.logger.Log(context.Background(), ev); err != nil {
			zap.L().Error("audit write failed",
				zap.String("action", string(ev.Action)),
				zap.Error(err),
			)
		}
	}
}

// Dispatch never blocks the request: a full queue drops the event. A nil or
// closed dispatcher ignores it.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		zap.L().Warn("audit queue full, dropping event", zap.String("action", string(ev.Action)))
	}
}

// Close drains pending events.
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
