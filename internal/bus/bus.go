// Package bus carries change notifications between the tracker and its
// front ends. Topics are fixed and every topic has one payload type.
package bus

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/tasklog/internal/model"
)

var ErrClosed = errors.New("bus: closed")

type Topic string

const (
	TopicTaskUpdated   Topic = "task.updated"
	TopicTimerChanged  Topic = "timer.changed"
	TopicFileOperation Topic = "file.operation"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

type TaskUpdated struct {
	Date   string
	TaskID string
	Action Action
}

type TimerChanged struct {
	State model.TimerState
}

type FileOperation struct {
	Operation string
	Details   string
}

// Payload is implemented by the typed payloads above.
type Payload interface {
	topic() Topic
}

func (TaskUpdated) topic() Topic   { return TopicTaskUpdated }
func (TimerChanged) topic() Topic  { return TopicTimerChanged }
func (FileOperation) topic() Topic { return TopicFileOperation }

type Event struct {
	Topic   Topic
	At      time.Time
	Payload Payload
}

type Subscription struct {
	bus    *Bus
	id     uint64
	topics map[Topic]struct{}
	out    chan Event
	once   sync.Once
}

func (s *Subscription) C() <-chan Event {
	return s.out
}

func (s *Subscription) wants(topic Topic) bool {
	if len(s.topics) == 0 {
		return true
	}
	_, ok := s.topics[topic]
	return ok
}

// Close detaches the subscription and closes its channel.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s)
}

type Bus struct {
	mu      sync.Mutex
	subs    map[uint64]*Subscription
	nextID  uint64
	closed  bool
	dropped uint64
	now     func() time.Time
}

func New() *Bus {
	return &Bus{
		subs: make(map[uint64]*Subscription),
		now:  time.Now,
	}
}

// Subscribe registers interest in topics; no topics means all of them.
func (b *Bus) Subscribe(buffer int, topics ...Topic) (*Subscription, error) {
	if buffer <= 0 {
		buffer = 1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	b.nextID++
	sub := &Subscription{
		bus:    b,
		id:     b.nextID,
		topics: make(map[Topic]struct{}, len(topics)),
		out:    make(chan Event, buffer),
	}
	for _, topic := range topics {
		sub.topics[topic] = struct{}{}
	}
	b.subs[sub.id] = sub
	return sub, nil
}

// Publish delivers payload to every interested subscriber without blocking.
// Events for subscribers whose buffer is full are dropped and counted.
func (b *Bus) Publish(payload Payload) {
	if payload == nil {
		return
	}
	ev := Event{Topic: payload.topic(), At: b.now().UTC(), Payload: payload}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, sub := range b.subs {
		if !sub.wants(ev.Topic) {
			continue
		}
		select {
		case sub.out <- ev:
		default:
			atomic.AddUint64(&b.dropped, 1)
		}
	}
}

func (b *Bus) Dropped() uint64 {
	return atomic.LoadUint64(&b.dropped)
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		sub.once.Do(func() { close(sub.out) })
	}
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, sub.id)
	sub.once.Do(func() { close(sub.out) })
}
