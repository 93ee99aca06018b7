package domain

type CommitStatus string

const (
	CommitStatusOpen          CommitStatus = "OPEN"
	CommitStatusCommitting    CommitStatus = "COMMITTING"
	CommitStatusStockAdjusted CommitStatus = "STOCK_ADJUSTED"
	CommitStatusCompleted     CommitStatus = "COMPLETED"
	CommitStatusFailed        CommitStatus = "FAILED"
)

func (s CommitStatus) IsTerminal() bool {
	return s == CommitStatusCompleted || s == CommitStatusFailed
}

// String representation (for logging)
func (s CommitStatus) String() string {
	return string(s)
}

// validTransitions encodes the commit pipeline: a session commits once,
// adjusts stock, then records the sale. Failure is reachable from any
// non-terminal step after OPEN.
var validTransitions = map[CommitStatus][]CommitStatus{
	CommitStatusOpen:          {CommitStatusCommitting},
	CommitStatusCommitting:    {CommitStatusStockAdjusted, CommitStatusFailed},
	CommitStatusStockAdjusted: {CommitStatusCompleted, CommitStatusFailed},
}

// CanTransitionTo reports whether moving from s to next is legal.
func CanTransitionTo(s, next CommitStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
