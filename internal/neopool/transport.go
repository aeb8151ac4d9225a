package neopool

import (
	"fmt"
	"sync"
)

// MessageFunc handles one inbound message. Implementations run on MQTT
// delivery goroutines and must not block for extended periods.
type MessageFunc func(topic string, payload []byte)

// Unsubscribe releases one subscription. Calling it more than once is
// safe; only the first call has effect.
type Unsubscribe func() error

// Transport is the pub/sub contract the entity layer requires.
// Subscribe returns a per-handler cancellation handle so each entity
// can own and release exactly its subscriptions on detach.
type Transport interface {
	Subscribe(topic string, qos byte, fn MessageFunc) (Unsubscribe, error)
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Broker is the upstream MQTT client contract the Dispatcher fans out
// over. It allows a single handler per topic, which is exactly what
// paho-backed clients provide.
type Broker interface {
	Subscribe(topic string, qos byte, handler func(topic string, payload []byte) error) error
	Unsubscribe(topic string) error
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Dispatcher implements Transport over a Broker with per-topic fan-out.
//
// Every entity of a device shares the same SENSOR and LWT topics, but
// the broker accepts only one handler per topic. The dispatcher
// subscribes upstream once per distinct topic, delivers each message to
// all registered handlers, and unsubscribes upstream when the last
// handler for a topic is released.
type Dispatcher struct {
	broker Broker

	mu     sync.Mutex
	topics map[string]*fanout
	nextID int
}

// fanout is the handler set for one upstream subscription.
type fanout struct {
	qos      byte
	handlers map[int]MessageFunc
}

// NewDispatcher creates a Dispatcher over the given broker.
func NewDispatcher(broker Broker) *Dispatcher {
	return &Dispatcher{
		broker: broker,
		topics: make(map[string]*fanout),
	}
}

// Subscribe registers fn for messages on topic. The first registration
// for a topic subscribes upstream with the given QoS; later
// registrations reuse the existing upstream subscription (their QoS is
// ignored). The returned handle detaches only this handler.
func (d *Dispatcher) Subscribe(topic string, qos byte, fn MessageFunc) (Unsubscribe, error) {
	if fn == nil {
		return nil, fmt.Errorf("neopool: subscribe %q: nil handler", topic)
	}

	d.mu.Lock()
	fo, upstream := d.topics[topic]
	if fo == nil {
		fo = &fanout{qos: qos, handlers: make(map[int]MessageFunc)}
		d.topics[topic] = fo
	}
	d.nextID++
	id := d.nextID
	fo.handlers[id] = fn
	d.mu.Unlock()

	if !upstream {
		if err := d.broker.Subscribe(topic, qos, d.dispatch); err != nil {
			d.mu.Lock()
			delete(fo.handlers, id)
			if len(fo.handlers) == 0 {
				delete(d.topics, topic)
			}
			d.mu.Unlock()
			return nil, err
		}
	}

	var once sync.Once
	unsub := func() error {
		var err error
		once.Do(func() {
			err = d.release(topic, id)
		})
		return err
	}
	return unsub, nil
}

// Publish forwards to the broker unchanged.
func (d *Dispatcher) Publish(topic string, payload []byte, qos byte, retained bool) error {
	return d.broker.Publish(topic, payload, qos, retained)
}

// HandlerCount returns the number of handlers registered for a topic.
// Useful for tests and debugging.
func (d *Dispatcher) HandlerCount(topic string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if fo := d.topics[topic]; fo != nil {
		return len(fo.handlers)
	}
	return 0
}

// dispatch is the single upstream handler; it snapshots the handler
// set under the lock and invokes handlers outside it so a handler may
// unsubscribe from within its own callback.
func (d *Dispatcher) dispatch(topic string, payload []byte) error {
	d.mu.Lock()
	var fns []MessageFunc
	if fo := d.topics[topic]; fo != nil {
		fns = make([]MessageFunc, 0, len(fo.handlers))
		for _, fn := range fo.handlers {
			fns = append(fns, fn)
		}
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(topic, payload)
	}
	return nil
}

// release removes one handler and tears down the upstream subscription
// when it was the last.
func (d *Dispatcher) release(topic string, id int) error {
	d.mu.Lock()
	fo := d.topics[topic]
	if fo == nil {
		d.mu.Unlock()
		return nil
	}
	delete(fo.handlers, id)
	last := len(fo.handlers) == 0
	if last {
		delete(d.topics, topic)
	}
	d.mu.Unlock()

	if last {
		return d.broker.Unsubscribe(topic)
	}
	return nil
}
