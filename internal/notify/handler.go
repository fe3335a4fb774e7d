package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"assistant/internal/dbmysql"
)

// persistCutoff is how far out a notification must be due before it is worth
// a durable write. Anything nearer fires before a restart is plausible; a
// crash inside that window loses it, which is accepted.
const persistCutoff = 300 * time.Second

const (
	busyPollInterval = 200 * time.Millisecond
	idlePollInterval = time.Second
)

// Channel delivers notifications for one scope
type Channel interface {
	Scope() string
	Deliver(n *Notification) error
}

// UserLookup resolves the read-only user view a reloaded notification needs
// for delivery.
type UserLookup interface {
	View(ctx context.Context, username string) (UserView, error)
}

// Handler owns the live set of pending notifications and the single
// background loop that delivers them. Notify is the sole external contract.
type Handler struct {
	mu   sync.Mutex
	live map[string]*Notification

	repo     dbmysql.NotificationRepository
	users    UserLookup
	channels map[string]Channel

	now  func() time.Time
	stop chan struct{}
	done chan struct{}
}

// NewHandler loads persisted notifications into the live set and starts the
// delivery loop.
func NewHandler(repo dbmysql.NotificationRepository, users UserLookup, channels []Channel) *Handler {
	h := newHandler(repo, users, channels)
	h.load(context.Background())

	go h.run()

	return h
}

func newHandler(repo dbmysql.NotificationRepository, users UserLookup, channels []Channel) *Handler {
	h := &Handler{
		live:     make(map[string]*Notification),
		repo:     repo,
		users:    users,
		channels: make(map[string]Channel),
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	for _, ch := range channels {
		h.channels[ch.Scope()] = ch
		log.Printf("Delivery channel registered for scope %q", ch.Scope())
	}

	return h
}

// Notify registers a notification for delivery. Notifications due more than
// five minutes out are also persisted; a failed write is logged and the
// notification is kept in memory only, so scheduling stays fire-and-forget.
func (h *Handler) Notify(ctx context.Context, n *Notification) {
	h.mu.Lock()
	h.live[n.UID] = n
	h.mu.Unlock()

	if n.TriggerTime-h.now().Unix() <= int64(persistCutoff/time.Second) {
		return
	}

	record := &dbmysql.NotificationRecord{
		UID:         n.UID,
		Message:     n.Message,
		Title:       n.Title,
		TriggerTime: n.TriggerTime,
		Scope:       n.Scope,
		Created:     n.Created,
		Summary:     n.Summary(),
		UserID:      n.User.Username,
	}
	if err := h.repo.Insert(ctx, record); err != nil {
		log.Printf("Failed to persist notification %s, keeping it in memory only: %v", n.UID, err)
	}
}

// load pulls every persisted notification into the live set, overdue rows
// included; the loop delivers those on its first pass.
func (h *Handler) load(ctx context.Context) {
	records, err := h.repo.All(ctx)
	if err != nil {
		log.Printf("Failed to load persisted notifications: %v", err)
		return
	}
	if len(records) == 0 {
		log.Println("No persisted notifications found")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, record := range records {
		view, err := h.users.View(ctx, record.UserID)
		if err != nil {
			log.Printf("Failed to load user %s for notification %s: %v", record.UserID, record.UID, err)
			view = UserView{Username: record.UserID}
		}

		n := &Notification{
			UID:         record.UID,
			Title:       record.Title,
			Message:     record.Message,
			Scope:       record.Scope,
			TriggerTime: record.TriggerTime,
			Created:     record.Created,
			User:        view,
		}
		if record.Summary != "" {
			n.setSummary(record.Summary)
		}
		h.live[n.UID] = n
	}

	log.Printf("Loaded %d persisted notifications", len(records))
}

func (h *Handler) run() {
	defer close(h.done)

	for {
		interval := idlePollInterval
		if h.pending() > 0 {
			interval = busyPollInterval
		}

		select {
		case <-h.stop:
			return
		case <-time.After(interval):
		}

		h.deliverDue()
	}
}

func (h *Handler) pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.live)
}

// deliverDue snapshots the due notifications under the lock, then delivers
// without holding it; channel calls block on network I/O. Each attempted
// notification is removed from the live set and the store exactly once,
// whether or not delivery succeeded.
func (h *Handler) deliverDue() {
	now := h.now()

	h.mu.Lock()
	var due []*Notification
	for _, n := range h.live {
		if n.ReachedAt(now) {
			due = append(due, n)
		}
	}
	h.mu.Unlock()

	for _, n := range due {
		h.dispatch(n)

		h.mu.Lock()
		delete(h.live, n.UID)
		h.mu.Unlock()

		if err := h.repo.Delete(context.Background(), n.UID); err != nil {
			log.Printf("Failed to delete notification %s from store: %v", n.UID, err)
		}
	}
}

// dispatch routes a notification to the channel registered for its scope. An
// unknown scope is logged and dropped rather than failing the loop; delivery
// is at-most-once and never retried.
func (h *Handler) dispatch(n *Notification) {
	channel, ok := h.channels[n.Scope]
	if !ok {
		log.Printf("No delivery channel for scope %q, dropping notification %s", n.Scope, n.UID)
		return
	}

	log.Printf("Sending notification %s to user %s via %s", n.UID, n.User.Username, n.Scope)
	if err := channel.Deliver(n); err != nil {
		log.Printf("Could not deliver notification %s to user %s: %v", n.UID, n.User.Username, err)
	}
}

// Shutdown stops the delivery loop and waits for it to exit
func (h *Handler) Shutdown() {
	close(h.stop)
	<-h.done
	log.Println("Notification handler shutdown complete")
}
