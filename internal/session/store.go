package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Command is one user command queued on a session. The ID is scoped to the
// session: "<session id>_<n>".
type Command struct {
	ID   string `json:"id"`
	Text string `json:"command"`
}

// Session is one authenticated client session. Commands relayed through the
// API are numbered and queued here so the core worker subsystem can drain
// them in order.
type Session struct {
	ID       string
	Username string
	Client   string
	Created  time.Time

	mu       sync.Mutex
	seq      int
	commands []Command
}

// NextCommandID allocates the next command id for this session
func (s *Session) NextCommandID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("%s_%d", s.ID, s.seq)
}

// Push appends a command to the session's queue
func (s *Session) Push(cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, cmd)
}

// Drain returns and clears the queued commands
func (s *Session) Drain() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.commands
	s.commands = nil
	return out
}

// Store holds all active sessions in memory. Sessions do not survive a
// process restart; clients are expected to start a new one.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Start creates a session for an already-authenticated user and returns it
func (st *Store) Start(username, client string) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		Username: username,
		Client:   client,
		Created:  time.Now(),
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	return s
}

// Get returns the session with the given id, if it exists
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Check reports whether a session id is valid
func (st *Store) Check(id string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	_, ok := st.sessions[id]
	return ok
}

// End removes a session and reports whether it existed
func (st *Store) End(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// ByUser returns the ids of all active sessions belonging to a user
func (st *Store) ByUser(username string) []string {
	st.mu.RLock()
	defer st.mu.RUnlock()

	ids := make([]string, 0)
	for id, s := range st.sessions {
		if s.Username == username {
			ids = append(ids, id)
		}
	}
	return ids
}
