package checkout

import (
	"sync"
	"time"

	"github.com/dean3213321/inventory-pos/internal/domain"
	"github.com/google/uuid"
)

// Session is one checkout attempt: a resolved buyer, a cart built against a
// product snapshot, and a one-shot commit token. The buyer is immutable for
// the session's lifetime; the cart is discarded with the session.
type Session struct {
	ID        string
	Buyer     domain.Buyer
	Cart      *Cart
	CreatedAt time.Time

	mu       sync.Mutex
	status   domain.CommitStatus
	inFlight bool
}

func NewSession(buyer domain.Buyer, products []domain.Product) *Session {
	return &Session{
		ID:        uuid.New().String(),
		Buyer:     buyer,
		Cart:      NewCart(products, buyer.PricingClass()),
		CreatedAt: time.Now(),
		status:    domain.CommitStatusOpen,
	}
}

func (s *Session) Status() domain.CommitStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// beginCommit consumes the session's commit token. A second commit attempt
// fails with ErrCommitInFlight while one is running and ErrSessionConsumed
// once the session reached a terminal status.
func (s *Session) beginCommit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return ErrCommitInFlight
	}
	if s.status.IsTerminal() {
		return ErrSessionConsumed
	}
	if !domain.CanTransitionTo(s.status, domain.CommitStatusCommitting) {
		return IllegalTransitionError
	}
	s.status = domain.CommitStatusCommitting
	s.inFlight = true
	return nil
}

func (s *Session) advance(next domain.CommitStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !domain.CanTransitionTo(s.status, next) {
		return IllegalTransitionError
	}
	s.status = next
	return nil
}

// finishCommit releases the in-flight flag at a terminal status.
func (s *Session) finishCommit(final domain.CommitStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = final
	s.inFlight = false
}
