// path: src/bus.go
package src

import (
	"sort"
	"sync"
)

// Topic names one event stream on the workspace bus.
type Topic string

const (
	TopicChatAppended    Topic = "chat-appended"
	TopicCodeUpdated     Topic = "code-updated"
	TopicDiagramSource   Topic = "diagram-source"
	TopicDiagramRendered Topic = "diagram-rendered"
	TopicProcessOutput   Topic = "process-output"
)

// Event is one bus delivery. Key, when non-empty, de-duplicates: a publish
// whose key the topic has already delivered is dropped, however late it
// arrives.
type Event struct {
	Topic   Topic
	Key     string
	Payload any
}

// Handler receives events for a subscription.
type Handler func(Event)

type subscription struct {
	id      string
	order   int
	handler Handler
}

// Bus is a typed in-process pub/sub hub. Subscribing twice with the same
// id replaces the handler instead of adding a duplicate. Delivery within a
// topic is serialized in subscription order.
type Bus struct {
	mu      sync.Mutex
	nextOrd int
	subs    map[Topic]map[string]*subscription
	seen    map[Topic]map[string]struct{}
}

func NewBus() *Bus {
	return &Bus{
		subs: map[Topic]map[string]*subscription{},
		seen: map[Topic]map[string]struct{}{},
	}
}

// Subscribe registers handler under id. Re-subscribing with an id the
// topic already has keeps the original position but swaps the handler, so
// panel re-mounts never double-deliver.
func (b *Bus) Subscribe(topic Topic, id string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	byID := b.subs[topic]
	if byID == nil {
		byID = map[string]*subscription{}
		b.subs[topic] = byID
	}
	if existing, ok := byID[id]; ok {
		existing.handler = handler
		return
	}
	b.nextOrd++
	byID[id] = &subscription{id: id, order: b.nextOrd, handler: handler}
}

// Unsubscribe removes the id's subscription; unknown ids are a no-op.
func (b *Bus) Unsubscribe(topic Topic, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs[topic], id)
}

// Publish delivers the event to every subscriber of its topic, in
// subscription order, on the caller's goroutine. Events carrying a Key
// the topic has already delivered are dropped, so a late duplicate of an
// older keyed event is never re-delivered.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	if ev.Key != "" {
		keys := b.seen[ev.Topic]
		if keys == nil {
			keys = map[string]struct{}{}
			b.seen[ev.Topic] = keys
		}
		if _, dup := keys[ev.Key]; dup {
			b.mu.Unlock()
			return
		}
		keys[ev.Key] = struct{}{}
	}
	ordered := make([]*subscription, 0, len(b.subs[ev.Topic]))
	for _, s := range b.subs[ev.Topic] {
		ordered = append(ordered, s)
	}
	b.mu.Unlock()

	sort.Slice(ordered, func(i, j int) bool { return ordered[i].order < ordered[j].order })
	for _, s := range ordered {
		s.handler(ev)
	}
}

// SubscriberCount reports how many handlers a topic currently has.
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}
