package session

import (
	"errors"
	"sync"
	"time"

	"github.com/dean3213321/inventory-pos/internal/checkout"
)

const (
	// SessionTTL is how long an idle checkout session lives before
	// auto-expiring; expiry discards the cart with no compensating call.
	SessionTTL = 15 * time.Minute

	// CleanupInterval is how often the background cleanup runs
	CleanupInterval = time.Minute
)

var ErrSessionNotFound = errors.New("session not found")

// Store holds live checkout sessions in memory. Sessions are local to this
// process; the backend stays the authority on stock across clients.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*checkout.Session
	ttl      time.Duration

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewStore() *Store {
	s := &Store{
		sessions:    make(map[string]*checkout.Session),
		ttl:         SessionTTL,
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

func (s *Store) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireSessions()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *Store) expireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func (s *Store) Put(sess *checkout.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *Store) Get(id string) (*checkout.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete discards a session; closing the checkout at any point before
// commit drops all local state.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Close stops the background cleanup and waits for it to finish
func (s *Store) Close() error {
	close(s.stopCleanup)
	s.wg.Wait()
	return nil
}
