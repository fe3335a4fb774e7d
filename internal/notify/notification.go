package notify

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// titlePrefix brands every outgoing notification title
const titlePrefix = "Assistant - "

// UserView is the read-only slice of a user record a notification borrows
// for delivery: who it is for and where it can be reached.
type UserView struct {
	Username  string
	FirstName string
	LastName  string
	// Settings holds contact settings, at minimum "email"
	Settings map[string]string
}

// Notification is one scheduled reminder. Text fields are normalized to
// printable ASCII at construction for maximum transport compatibility.
type Notification struct {
	UID     string
	Title   string
	Message string
	// Scope selects the delivery channel, e.g. "email"
	Scope string
	// TriggerTime is the epoch second at which delivery becomes due
	TriggerTime int64
	Created     time.Time
	User        UserView

	mu         sync.Mutex
	summary    string
	summarySet bool
}

// NewNotification builds a notification due at triggerTime. The uid is a
// time-ordered unique token.
func NewNotification(message, title string, triggerTime int64, scope string, user UserView) *Notification {
	return &Notification{
		UID:         newUID(),
		Title:       asciiEncode(titlePrefix + title),
		Message:     asciiEncode(message),
		Scope:       scope,
		TriggerTime: triggerTime,
		Created:     time.Now(),
		User:        user,
	}
}

func newUID() string {
	// Version 1 uuids sort by creation time
	id, err := uuid.NewUUID()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// TimeReached reports whether the notification is due
func (n *Notification) TimeReached() bool {
	return n.ReachedAt(time.Now())
}

// ReachedAt reports whether the notification is due as of t
func (n *Notification) ReachedAt(t time.Time) bool {
	return t.Unix() >= n.TriggerTime
}

// Summary returns the short form used as an email subject. If none was
// supplied it is derived once from the message: the first 4 whitespace
// separated tokens when the message has at least 5, otherwise the whole
// message. The derived value never changes afterwards.
func (n *Notification) Summary() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.summarySet {
		return n.summary
	}

	words := strings.Fields(n.Message)
	if len(words) >= 5 {
		n.summary = strings.Join(words[:4], " ")
	} else {
		n.summary = n.Message
	}
	n.summarySet = true

	return n.summary
}

// setSummary seeds an explicit summary, used when reloading persisted rows
func (n *Notification) setSummary(summary string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.summary = summary
	n.summarySet = true
}

// asciiEncode strips everything outside printable ASCII
func asciiEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 32 && r < 127 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
