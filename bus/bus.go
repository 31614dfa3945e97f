// Package bus is a small in-process pub/sub with retained messages and
// MQTT-style wildcards ("+" one level, "#" the remainder).
package bus

import (
	"strings"
	"sync"
)

const (
	wildOne  = "+"
	wildRest = "#"
)

// Topic is a sequence of levels.
type Topic []string

// T splits a slash-separated path into a Topic.
func T(path string) Topic { return Topic(strings.Split(path, "/")) }

func (t Topic) String() string { return strings.Join(t, "/") }

// Message is delivered by pointer; receivers must not modify it.
type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
}

type Subscription struct {
	topic Topic
	ch    chan *Message
	conn  *Connection
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// node is shared by the subscription trie (keys may be wildcards) and the
// retained trie (concrete keys only).
type node struct {
	children map[string]*node
	subs     []*Subscription
	retained *Message
}

func (n *node) child(key string, create bool) *node {
	c := n.children[key]
	if c == nil && create {
		if n.children == nil {
			n.children = make(map[string]*node)
		}
		c = &node{}
		n.children[key] = c
	}
	return c
}

func (n *node) empty() bool {
	return len(n.subs) == 0 && len(n.children) == 0 && n.retained == nil
}

type Bus struct {
	mu       sync.Mutex
	subs     *node
	retained *node
	qLen     int
}

// NewBus creates a bus whose subscriptions buffer queueLen messages. A full
// queue drops its oldest message.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Bus{subs: &node{}, retained: &node{}, qLen: queueLen}
}

func (b *Bus) NewMessage(topic Topic, payload any, retained bool) *Message {
	return &Message{Topic: topic, Payload: payload, Retained: retained}
}

// caller holds b.mu
func deliver(sub *Subscription, msg *Message) {
	select {
	case sub.ch <- msg:
	default:
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- msg:
		default:
		}
	}
}

// Publish delivers msg to every matching subscription. A retained message
// replaces the topic's stored message; a retained nil payload clears it.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	matchSubs(b.subs, msg.Topic, func(s *Subscription) { deliver(s, msg) })

	if !msg.Retained {
		return
	}
	if msg.Payload == nil {
		b.clearRetained(msg.Topic)
		return
	}
	n := b.retained
	for _, k := range msg.Topic {
		n = n.child(k, true)
	}
	n.retained = msg
}

// Retained returns the stored message for an exact topic.
func (b *Bus) Retained(topic Topic) (*Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.retained
	for _, k := range topic {
		if n = n.child(k, false); n == nil {
			return nil, false
		}
	}
	return n.retained, n.retained != nil
}

// caller holds b.mu
func (b *Bus) clearRetained(topic Topic) {
	path := []*node{b.retained}
	n := b.retained
	for _, k := range topic {
		if n = n.child(k, false); n == nil {
			return
		}
		path = append(path, n)
	}
	n.retained = nil
	prune(path, topic)
}

// prune removes empty nodes bottom-up; path[i+1] is path[i].children[keys[i]].
func prune(path []*node, keys Topic) {
	for i := len(keys) - 1; i >= 0; i-- {
		if !path[i+1].empty() {
			return
		}
		delete(path[i].children, keys[i])
	}
}

// matchSubs visits subscriptions whose pattern matches the concrete topic.
func matchSubs(n *node, topic Topic, fn func(*Subscription)) {
	if h := n.child(wildRest, false); h != nil {
		for _, s := range h.subs {
			fn(s)
		}
	}
	if len(topic) == 0 {
		for _, s := range n.subs {
			fn(s)
		}
		return
	}
	if c := n.child(topic[0], false); c != nil {
		matchSubs(c, topic[1:], fn)
	}
	if c := n.child(wildOne, false); c != nil {
		matchSubs(c, topic[1:], fn)
	}
}

// matchRetained visits retained messages whose topic matches pattern.
func matchRetained(n *node, pattern Topic, fn func(*Message)) {
	if len(pattern) == 0 {
		if n.retained != nil {
			fn(n.retained)
		}
		return
	}
	switch pattern[0] {
	case wildRest:
		var walk func(*node)
		walk = func(m *node) {
			if m.retained != nil {
				fn(m.retained)
			}
			for _, c := range m.children {
				walk(c)
			}
		}
		walk(n)
	case wildOne:
		for _, c := range n.children {
			matchRetained(c, pattern[1:], fn)
		}
	default:
		if c := n.child(pattern[0], false); c != nil {
			matchRetained(c, pattern[1:], fn)
		}
	}
}

func (b *Bus) subscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.subs
	for _, k := range sub.topic {
		n = n.child(k, true)
	}
	n.subs = append(n.subs, sub)
	matchRetained(b.retained, sub.topic, func(m *Message) { deliver(sub, m) })
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	path := []*node{b.subs}
	n := b.subs
	for _, k := range sub.topic {
		if n = n.child(k, false); n == nil {
			return
		}
		path = append(path, n)
	}
	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			break
		}
	}
	prune(path, sub.topic)
}

// Connection owns a set of subscriptions so they can be dropped together.
type Connection struct {
	bus  *Bus
	id   string
	mu   sync.Mutex
	subs []*Subscription
}

func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{bus: b, id: id}
}

func (c *Connection) ID() string { return c.id }

func (c *Connection) NewMessage(topic Topic, payload any, retained bool) *Message {
	return c.bus.NewMessage(topic, payload, retained)
}

func (c *Connection) Publish(msg *Message) { c.bus.Publish(msg) }

// Subscribe registers pattern. Matching retained messages are queued
// immediately.
func (c *Connection) Subscribe(pattern Topic) *Subscription {
	sub := &Subscription{topic: pattern, ch: make(chan *Message, c.bus.qLen), conn: c}
	c.bus.subscribe(sub)
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	return sub
}

// Unsubscribe removes sub and closes its channel.
func (c *Connection) Unsubscribe(sub *Subscription) {
	c.mu.Lock()
	found := false
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			found = true
			break
		}
	}
	c.mu.Unlock()
	if !found {
		return
	}
	c.bus.unsubscribe(sub)
	close(sub.ch)
}

// Disconnect drops every subscription owned by c.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, sub := range subs {
		c.bus.unsubscribe(sub)
		close(sub.ch)
	}
}
