// Package notify is the single notification channel for every page: success,
// warning and error toasts with a scheduled dismissal.
package notify

import (
	"sort"
	"sync"
	"time"

	"newsdesk/internal"
	"newsdesk/internal/errors"

	"github.com/google/uuid"
)

// Severity of a notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a transient toast.
type Notification struct {
	ID        string    `json:"id"`
	SessionID string    `json:"-"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type entry struct {
	note  Notification
	seq   uint64
	timer *time.Timer
}

// Notifier schedules and tracks notifications. Each one is dismissed
// automatically after the TTL, or earlier through Dismiss.
type Notifier struct {
	ttl    time.Duration
	hub    *Hub
	logger *internal.Logger

	mu     sync.Mutex
	active map[string]*entry
	seq    uint64
	closed bool
}

// NewNotifier creates a notifier. hub may be nil when nothing is streamed.
func NewNotifier(ttl time.Duration, hub *Hub, logger *internal.Logger) *Notifier {
	return &Notifier{
		ttl:    ttl,
		hub:    hub,
		logger: logger.With("Notify"),
		active: make(map[string]*entry),
	}
}

// Notify shows message to sessionID (every session when empty) and schedules
// its dismissal.
func (n *Notifier) Notify(sessionID, message string, severity Severity) Notification {
	now := time.Now()
	note := Notification{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Severity:  severity,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(n.ttl),
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return note
	}
	id := note.ID
	n.seq++
	n.active[id] = &entry{
		note:  note,
		seq:   n.seq,
		timer: time.AfterFunc(n.ttl, func() { n.Dismiss(id) }),
	}
	n.mu.Unlock()

	n.logger.Debug("%s for session %q: %s", severity, sessionID, message)
	if n.hub != nil {
		n.hub.Publish(Event{Type: EventNotify, SessionID: sessionID, Notification: &note, Timestamp: now})
	}
	return note
}

// Success, Warning and Error are shorthands for Notify.
func (n *Notifier) Success(sessionID, message string) Notification {
	return n.Notify(sessionID, message, SeveritySuccess)
}

func (n *Notifier) Warning(sessionID, message string) Notification {
	return n.Notify(sessionID, message, SeverityWarning)
}

func (n *Notifier) Error(sessionID, message string) Notification {
	return n.Notify(sessionID, message, SeverityError)
}

// FromError notifies about err using the message and severity its code calls for.
func (n *Notifier) FromError(sessionID string, err error) Notification {
	severity := SeverityError
	message := errors.UserMessage(err)

	switch errors.GetCode(err) {
	case errors.CodeValidationError, errors.CodeBusy:
		severity = SeverityWarning
	case errors.CodeNetworkError:
		message = "Network error. Please check your connection and try again."
	case errors.CodeApplicationError:
	default:
		message = "Something went wrong. Please try again."
	}
	if message == "" {
		message = "Something went wrong. Please try again."
	}
	return n.Notify(sessionID, message, severity)
}

// Dismiss removes a notification. It reports whether it was still active.
func (n *Notifier) Dismiss(id string) bool {
	n.mu.Lock()
	e, ok := n.active[id]
	if ok {
		delete(n.active, id)
		e.timer.Stop()
	}
	n.mu.Unlock()

	if ok && n.hub != nil {
		note := e.note
		n.hub.Publish(Event{Type: EventDismiss, SessionID: note.SessionID, Notification: &note})
	}
	return ok
}

// Active lists the notifications visible to sessionID, oldest first.
// Broadcast notifications are visible to everyone.
func (n *Notifier) Active(sessionID string) []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	visible := make([]*entry, 0, len(n.active))
	for _, e := range n.active {
		if e.note.SessionID == "" || e.note.SessionID == sessionID {
			visible = append(visible, e)
		}
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].seq < visible[j].seq })

	out := make([]Notification, len(visible))
	for i, e := range visible {
		out[i] = e.note
	}
	return out
}

// Close stops every pending dismissal timer.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, e := range n.active {
		e.timer.Stop()
		delete(n.active, id)
	}
	n.closed = true
}
