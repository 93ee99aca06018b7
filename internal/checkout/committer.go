package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/dean3213321/inventory-pos/internal/domain"
	"github.com/dean3213321/inventory-pos/internal/repository"
)

// Renderer produces the downloadable receipt artifact. It runs exactly
// once per commit, after the snapshot is taken and before any remote
// submission.
type Renderer interface {
	Render(receipt domain.Receipt) error
}

// SubmissionAPI is the slice of the backend client the committer needs.
type SubmissionAPI interface {
	DecrementStock(ctx context.Context, lines []domain.ReceiptLine, idempotencyKey string) error
	AppendSalesRecord(ctx context.Context, receipt domain.Receipt) error
}

// Journal is the slice of the commit repository the committer needs.
type Journal interface {
	CreateCommit(ctx context.Context, commit *repository.CommitRecord) error
	UpdateCommitStatus(ctx context.Context, id string, status domain.CommitStatus) error
	CompleteCommit(ctx context.Context, id string, payload []byte, status domain.CommitStatus) error
}

// Committer materializes a session's cart into a receipt and submits the
// two backend side effects: stock decrement first, sales record second. The
// decrement goes first because a missed decrement drifts inventory, while a
// failed sales write can be recreated; the idempotency key makes the
// decrement safe to retry. There is no rollback: a failed sales write after
// a successful decrement is reported as a partial commit, not undone.
type Committer struct {
	api      SubmissionAPI
	journal  Journal
	renderer Renderer
	timeout  time.Duration
}

func NewCommitter(api SubmissionAPI, journal Journal, renderer Renderer, timeout time.Duration) *Committer {
	return &Committer{
		api:      api,
		journal:  journal,
		renderer: renderer,
		timeout:  timeout,
	}
}

// Commit runs the checkout pipeline for the session. An empty cart fails
// fast and leaves the session open; every later failure consumes the
// session's one commit.
func (c *Committer) Commit(ctx context.Context, session *Session) (domain.Receipt, error) {
	if session.Cart.Empty() {
		return domain.Receipt{}, ErrEmptyCart
	}

	if err := session.beginCommit(); err != nil {
		return domain.Receipt{}, err
	}

	receipt := session.Cart.Snapshot(session.Buyer)

	if err := c.renderer.Render(receipt); err != nil {
		session.finishCommit(domain.CommitStatusFailed)
		return domain.Receipt{}, fmt.Errorf("failed to render receipt: %w", err)
	}

	receiptJSON, err := json.Marshal(receipt)
	if err != nil {
		session.finishCommit(domain.CommitStatusFailed)
		return domain.Receipt{}, fmt.Errorf("failed to marshal receipt: %w", err)
	}

	record := &repository.CommitRecord{
		ID:             uuid.New().String(),
		SessionID:      session.ID,
		IdempotencyKey: uuid.New().String(),
		BuyerName:      receipt.BuyerName,
		Receipt:        receiptJSON,
		Status:         domain.CommitStatusCommitting,
	}
	if err := c.journal.CreateCommit(ctx, record); err != nil {
		session.finishCommit(domain.CommitStatusFailed)
		return domain.Receipt{}, fmt.Errorf("failed to journal commit: %w", err)
	}

	decrementCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.api.DecrementStock(decrementCtx, receipt.Lines, record.IdempotencyKey); err != nil {
		c.fail(ctx, session, record.ID)
		return domain.Receipt{}, fmt.Errorf("stock decrement failed: %w", err)
	}

	if err := c.advance(ctx, session, record.ID, domain.CommitStatusStockAdjusted); err != nil {
		return domain.Receipt{}, err
	}

	salesCtx, cancelSales := context.WithTimeout(ctx, c.timeout)
	defer cancelSales()
	if err := c.api.AppendSalesRecord(salesCtx, receipt); err != nil {
		// stock has already been decremented; this partial commit is
		// journaled as FAILED and reported, never rolled back
		c.fail(ctx, session, record.ID)
		return domain.Receipt{}, fmt.Errorf("sales record failed: %w", err)
	}

	payload := map[string]interface{}{
		"commit_id":    record.ID,
		"session_id":   session.ID,
		"buyer_name":   receipt.BuyerName,
		"lines":        receipt.Lines,
		"grand_total":  receipt.GrandTotal,
		"currency":     receipt.Currency,
		"completed_at": time.Now(),
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		c.fail(ctx, session, record.ID)
		return domain.Receipt{}, fmt.Errorf("failed to marshal sale payload: %w", err)
	}

	if err := c.journal.CompleteCommit(ctx, record.ID, payloadJSON, domain.CommitStatusCompleted); err != nil {
		c.fail(ctx, session, record.ID)
		return domain.Receipt{}, fmt.Errorf("failed to complete commit: %w", err)
	}

	session.finishCommit(domain.CommitStatusCompleted)
	return receipt, nil
}

func (c *Committer) advance(ctx context.Context, session *Session, commitID string, next domain.CommitStatus) error {
	if err := session.advance(next); err != nil {
		c.fail(ctx, session, commitID)
		return err
	}
	if err := c.journal.UpdateCommitStatus(ctx, commitID, next); err != nil {
		c.fail(ctx, session, commitID)
		return fmt.Errorf("failed to journal status %s: %w", next, err)
	}
	return nil
}

func (c *Committer) fail(ctx context.Context, session *Session, commitID string) {
	session.finishCommit(domain.CommitStatusFailed)
	if commitID == "" {
		return
	}
	if err := c.journal.UpdateCommitStatus(ctx, commitID, domain.CommitStatusFailed); err != nil {
		log.Printf("failed to journal FAILED status for commit %v: %v", commitID, err)
	}
}
