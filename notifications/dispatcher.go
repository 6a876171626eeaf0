package notifications

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Message is one outbound guest notification. Either Template+Variables or
// the freeform Body is set.
type Message struct {
	DeliveryID string            `json:"delivery_id"`
	Channel    string            `json:"channel"` // "sms", "email"
	Recipient  string            `json:"recipient"`
	Template   string            `json:"template,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`
	Body       string            `json:"body,omitempty"`
}

// Transport delivers a rendered message. Dispatch never waits on it.
type Transport interface {
	Send(msg Message) error
}

// Dispatcher is a fire-and-forget producer/consumer: Dispatch hands the
// message to a buffered channel and returns immediately; a single worker
// goroutine drains it through the transport. Delivery failure is logged,
// never propagated: a confirmation must not block a transaction that
// already succeeded at the data level.
type Dispatcher struct {
	queue     chan Message
	transport Transport

	mu     sync.Mutex
	closed bool

	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewDispatcher(transport Transport, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	d := &Dispatcher{
		queue:     make(chan Message, buffer),
		transport: transport,
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		if err := d.transport.Send(msg); err != nil {
			log.Printf("notification delivery failed (delivery_id=%s channel=%s): %v",
				msg.DeliveryID, msg.Channel, err)
		}
	}
}

// Dispatch enqueues a message and returns its delivery id. When the queue
// is full, or the dispatcher is already closing, the message is dropped
// with a log line rather than blocking or panicking the caller.
func (d *Dispatcher) Dispatch(msg Message) string {
	if msg.DeliveryID == "" {
		msg.DeliveryID = uuid.NewString()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		log.Printf("notification dispatcher closed, dropping delivery_id=%s", msg.DeliveryID)
		return msg.DeliveryID
	}
	select {
	case d.queue <- msg:
	default:
		log.Printf("notification queue full, dropping delivery_id=%s", msg.DeliveryID)
	}
	return msg.DeliveryID
}

// Close stops accepting messages and waits for the worker to drain the
// queue. Used on graceful shutdown and in tests. The closed flag is set
// under the same mutex Dispatch holds while sending, so no send can race
// the channel close.
func (d *Dispatcher) Close() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		close(d.queue)
	})
	d.wg.Wait()
}
