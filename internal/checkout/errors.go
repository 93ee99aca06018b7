package checkout

import "errors"

var (
	ErrEmptyCart           = errors.New("cart is empty, nothing to commit")
	ErrCommitInFlight      = errors.New("a commit is already in flight for this session")
	ErrSessionConsumed     = errors.New("session has already been committed")
	IllegalTransitionError = errors.New("illegal transition of commit status")
)
