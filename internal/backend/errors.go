package backend

import (
	"errors"
	"fmt"
)

var (
	ErrBuyerNotFound = errors.New("buyer not found")

	// ErrDuplicateSalesRecord is the backend's named conflict for a sales
	// record whose buyer name already exists. Callers surface it as an
	// actionable message, not a generic failure.
	ErrDuplicateSalesRecord = errors.New("a record with this buyer name already exists")
)

// duplicateRecordMessage is the exact error string the backend replies with
// on the sales-history conflict.
const duplicateRecordMessage = "A record with this buyerName already exists"

// APIError carries a structured error body returned by the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
}
