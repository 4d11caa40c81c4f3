// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package reload

import (
	"sync"
)

// Kind tells browsers how to apply a change.
type Kind int

const (
	// Full reloads the whole page.
	Full Kind = iota
	// CSS swaps stylesheets in place without reloading the page.
	CSS
)

// Event is the socket.io event name a notification of this kind is pushed as.
func (k Kind) Event() string {
	if k == CSS {
		return EventCSS
	}
	return EventReload
}

func (k Kind) String() string {
	return k.Event()
}

// Socket.io event names shared by the dev server, the injected browser client
// and the command-line client.
const (
	EventReload        = "reload"
	EventCSS           = "css"
	EventReloadRequest = "reload:request"
)

// Notification is one "the output changed" signal.
type Notification struct {
	Kind Kind
	// Rule is the watch rule (or other origin) that produced it.
	Rule string
}

// subscriberBuffer bounds how many notifications a slow subscriber can lag
// behind before further ones are dropped for it.
const subscriberBuffer = 16

// Channel fans notifications out to every subscriber. The zero value is not
// usable; create one with NewChannel.
type Channel struct {
	mu     sync.Mutex
	subs   map[int]chan Notification
	nextID int
	closed bool
}

// NewChannel creates an empty Channel.
func NewChannel() *Channel {
	return &Channel{subs: make(map[int]chan Notification)}
}

// Notify delivers n to every subscriber without blocking. It reports how many
// subscribers received it.
func (c *Channel) Notify(n Notification) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	delivered := 0
	for _, ch := range c.subs {
		select {
		case ch <- n:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribe registers a new subscriber. The returned cancel function removes
// it and closes its channel; it is safe to call more than once.
func (c *Channel) Subscribe() (<-chan Notification, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Notification, subscriberBuffer)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextID
	c.nextID++
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if _, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(ch)
			}
		})
	}
}

// Close closes every subscriber channel. Later notifications are dropped.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
}
