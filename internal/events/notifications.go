package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notification levels shown in the dashboard feed.
const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Notification is one transient entry in the dashboard feed.
type Notification struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Resource  string    `json:"resource"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Center retains the most recent notifications, newest first, up to a cap.
// It subscribes itself to mutation and fetch events on the bus.
type Center struct {
	mu    sync.Mutex
	items []Notification
	cap   int
}

// NewCenter builds a notification center and wires it to the bus.
func NewCenter(bus *Bus, capacity int) *Center {
	if capacity <= 0 {
		capacity = 100
	}
	c := &Center{cap: capacity}

	record := func(level string) Handler {
		return func(event *Event) error {
			var payload MutationPayload
			if err := json.Unmarshal(event.Payload, &payload); err != nil {
				return err
			}
			c.Add(Notification{
				Level:     level,
				Resource:  payload.Resource,
				Message:   payload.Message,
				CreatedAt: event.CreatedAt,
			})
			return nil
		}
	}

	bus.Subscribe(EventMutationSucceeded, record(LevelSuccess))
	bus.Subscribe(EventMutationFailed, record(LevelError))
	bus.Subscribe(EventFetchFailed, record(LevelError))

	return c
}

// Add prepends a notification, assigning an ID and trimming to capacity.
func (c *Center) Add(n Notification) Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]Notification{n}, c.items...)
	if len(c.items) > c.cap {
		c.items = c.items[:c.cap]
	}
	return n
}

// List returns a copy of the current feed, newest first.
func (c *Center) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Dismiss removes a notification by ID; it reports whether one was removed.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}
