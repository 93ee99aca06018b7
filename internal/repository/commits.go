package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dean3213321/inventory-pos/internal/domain"
)

// CommitRecord journals one checkout commit: the receipt snapshot, the
// idempotency key sent with the stock decrement, and the terminal status the
// commit reached.
type CommitRecord struct {
	ID             string
	SessionID      string
	IdempotencyKey string
	BuyerName      string
	Receipt        []byte // receipt snapshot as JSON
	Status         domain.CommitStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r *Repository) CreateCommit(ctx context.Context, commit *CommitRecord) error {
	query := `
		INSERT INTO receipt_commits (id, session_id, idempotency_key, buyer_name, receipt, status)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		commit.ID,
		commit.SessionID,
		commit.IdempotencyKey,
		commit.BuyerName,
		commit.Receipt,
		commit.Status.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to create commit record: %w", err)
	}
	return nil
}

func (r *Repository) UpdateCommitStatus(ctx context.Context, id string, status domain.CommitStatus) error {
	query := `
		UPDATE receipt_commits
		SET status = $2, updated_at = now()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status.String())
	if err != nil {
		return fmt.Errorf("failed to update commit status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrCommitNotFound
	}
	return nil
}

// GetCommitByIdempotencyKey returns the journaled commit carrying the key,
// or ErrIdempotencyKeyNotFound.
func (r *Repository) GetCommitByIdempotencyKey(ctx context.Context, key string) (*CommitRecord, error) {
	query := `
		SELECT id, session_id, idempotency_key, buyer_name, receipt, status, created_at, updated_at
		FROM receipt_commits
		WHERE idempotency_key = $1`

	var commit CommitRecord
	var status string
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&commit.ID,
		&commit.SessionID,
		&commit.IdempotencyKey,
		&commit.BuyerName,
		&commit.Receipt,
		&status,
		&commit.CreatedAt,
		&commit.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIdempotencyKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get commit by idempotency key: %w", err)
	}

	commit.Status = domain.CommitStatus(status)
	return &commit, nil
}

// GetStuckCommits returns commits still in a non-terminal status whose last
// update is older than the cutoff. A row can only stay non-terminal that long
// when the process died mid-pipeline.
func (r *Repository) GetStuckCommits(ctx context.Context, cutoff time.Time) ([]*CommitRecord, error) {
	query := `
		SELECT id, session_id, idempotency_key, buyer_name, receipt, status, created_at, updated_at
		FROM receipt_commits
		WHERE status IN ($1, $2) AND updated_at < $3
		ORDER BY updated_at`

	rows, err := r.db.QueryContext(ctx, query,
		domain.CommitStatusCommitting.String(),
		domain.CommitStatusStockAdjusted.String(),
		cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stuck commits: %w", err)
	}
	defer rows.Close()

	var commits []*CommitRecord
	for rows.Next() {
		var commit CommitRecord
		var status string
		if err := rows.Scan(
			&commit.ID,
			&commit.SessionID,
			&commit.IdempotencyKey,
			&commit.BuyerName,
			&commit.Receipt,
			&status,
			&commit.CreatedAt,
			&commit.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stuck commit: %w", err)
		}
		commit.Status = domain.CommitStatus(status)
		commits = append(commits, &commit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stuck commits: %w", err)
	}
	return commits, nil
}

// CompleteCommit sets the terminal status and records the sales-completed
// outbox event in one transaction, so a journaled completion always has its
// event and vice versa.
func (r *Repository) CompleteCommit(ctx context.Context, id string, payload []byte, status domain.CommitStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE receipt_commits
		SET status = $2, updated_at = now()
		WHERE id = $1`, id, status.String())
	if err != nil {
		return fmt.Errorf("failed to update commit status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrCommitNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outbox_events (aggregate_id, event_type, payload)
		VALUES ($1, $2, $3)`, id, EventSaleCompleted, payload)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
