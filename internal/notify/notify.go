// Package notify implements the transient status notice shown at the top
// of the page. A notice is visible for a fixed window after the action that
// produced it; the next page render inside that window displays it, renders
// after the window show nothing.
package notify

import (
	"sync"
	"time"
)

// Severity classifies a notice for styling.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// DisplayWindow is how long a notice stays visible after it is set.
const DisplayWindow = 3 * time.Second

// Notice is a transient status message.
type Notice struct {
	Message  string
	Severity Severity
}

type entry struct {
	notice Notice
	timer  *time.Timer
}

// Center stores the current notice per browser key (session hash or
// anonymous visitor cookie). Each key has at most one pending dismissal
// timer: setting a new notice stops the previous timer first, so an old
// dismissal can never hide a newer message.
type Center struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]*entry
}

// NewCenter creates a Center with the default display window.
func NewCenter() *Center {
	return NewCenterWithWindow(DisplayWindow)
}

// NewCenterWithWindow creates a Center with a custom display window.
// Used by tests to avoid real 3s waits.
func NewCenterWithWindow(window time.Duration) *Center {
	return &Center{
		window:  window,
		entries: make(map[string]*entry),
	}
}

// Notify replaces the current notice for key and schedules its dismissal.
// Cannot fail.
func (c *Center) Notify(key, message string, severity Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.entries[key]; ok {
		prev.timer.Stop()
	}

	e := &entry{
		notice: Notice{Message: message, Severity: severity},
	}
	e.timer = time.AfterFunc(c.window, func() {
		c.dismiss(key, e)
	})
	c.entries[key] = e
}

// Current returns the visible notice for key, if any.
func (c *Center) Current(key string) (Notice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Notice{}, false
	}
	return e.notice, true
}

// Clear removes the notice for key immediately.
func (c *Center) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.timer.Stop()
		delete(c.entries, key)
	}
}

// dismiss removes the entry only if it is still the active one for key.
// Guards against a stopped-but-already-fired timer evicting a newer notice.
func (c *Center) dismiss(key string, e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current, ok := c.entries[key]; ok && current == e {
		delete(c.entries, key)
	}
}
