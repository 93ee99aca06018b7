package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dean3213321/inventory-pos/internal/domain"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "./migrations",
	}

	repo, err := NewRepository(creds)
	require.NoError(t, err)

	err = repo.RunMigrations(creds)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func sampleCommit() *CommitRecord {
	return &CommitRecord{
		ID:             uuid.New().String(),
		SessionID:      uuid.New().String(),
		IdempotencyKey: uuid.New().String(),
		BuyerName:      "Jane Cruz",
		Receipt:        []byte(`{"buyer_name":"Jane Cruz","grand_total":22}`),
		Status:         domain.CommitStatusCommitting,
	}
}

func TestCreateAndGetCommitByIdempotencyKey(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	commit := sampleCommit()
	require.NoError(t, repo.CreateCommit(ctx, commit))

	got, err := repo.GetCommitByIdempotencyKey(ctx, commit.IdempotencyKey)

	require.NoError(t, err)
	assert.Equal(t, commit.ID, got.ID)
	assert.Equal(t, commit.SessionID, got.SessionID)
	assert.Equal(t, "Jane Cruz", got.BuyerName)
	assert.Equal(t, domain.CommitStatusCommitting, got.Status)
	assert.JSONEq(t, string(commit.Receipt), string(got.Receipt))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetCommitByIdempotencyKey_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetCommitByIdempotencyKey(context.Background(), "nonexistent-key")
	assert.ErrorIs(t, err, ErrIdempotencyKeyNotFound)
}

func TestUpdateCommitStatus(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	commit := sampleCommit()
	require.NoError(t, repo.CreateCommit(ctx, commit))

	require.NoError(t, repo.UpdateCommitStatus(ctx, commit.ID, domain.CommitStatusStockAdjusted))

	got, err := repo.GetCommitByIdempotencyKey(ctx, commit.IdempotencyKey)
	require.NoError(t, err)
	assert.Equal(t, domain.CommitStatusStockAdjusted, got.Status)
}

func TestUpdateCommitStatus_UnknownCommit(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.UpdateCommitStatus(context.Background(), uuid.New().String(), domain.CommitStatusFailed)
	assert.ErrorIs(t, err, ErrCommitNotFound)
}

func TestGetStuckCommits_ReturnsOnlyStaleNonTerminalRows(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	stuck := sampleCommit()
	require.NoError(t, repo.CreateCommit(ctx, stuck))

	completed := sampleCommit()
	require.NoError(t, repo.CreateCommit(ctx, completed))
	require.NoError(t, repo.UpdateCommitStatus(ctx, completed.ID, domain.CommitStatusStockAdjusted))
	require.NoError(t, repo.CompleteCommit(ctx, completed.ID, []byte(`{}`), domain.CommitStatusCompleted))

	// both rows are fresher than a cutoff in the past
	commits, err := repo.GetStuckCommits(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, commits)

	// a cutoff past both rows returns only the non-terminal one
	commits, err = repo.GetStuckCommits(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, stuck.ID, commits[0].ID)
	assert.Equal(t, domain.CommitStatusCommitting, commits[0].Status)
}

func TestCompleteCommit_WritesOutboxEventAtomically(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	commit := sampleCommit()
	require.NoError(t, repo.CreateCommit(ctx, commit))
	require.NoError(t, repo.UpdateCommitStatus(ctx, commit.ID, domain.CommitStatusStockAdjusted))

	payload := []byte(`{"commit_id":"` + commit.ID + `","grand_total":22}`)
	require.NoError(t, repo.CompleteCommit(ctx, commit.ID, payload, domain.CommitStatusCompleted))

	got, err := repo.GetCommitByIdempotencyKey(ctx, commit.IdempotencyKey)
	require.NoError(t, err)
	assert.Equal(t, domain.CommitStatusCompleted, got.Status)

	events, err := repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, commit.ID, events[0].AggregateID)
	assert.Equal(t, EventSaleCompleted, events[0].EventType)
	assert.JSONEq(t, string(payload), string(events[0].Payload))
}

func TestCompleteCommit_UnknownCommitWritesNothing(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	err := repo.CompleteCommit(ctx, uuid.New().String(), []byte(`{}`), domain.CommitStatusCompleted)
	assert.ErrorIs(t, err, ErrCommitNotFound)

	events, err := repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestMarkEventAsProcessed(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	commit := sampleCommit()
	require.NoError(t, repo.CreateCommit(ctx, commit))
	require.NoError(t, repo.UpdateCommitStatus(ctx, commit.ID, domain.CommitStatusStockAdjusted))
	require.NoError(t, repo.CompleteCommit(ctx, commit.ID, []byte(`{}`), domain.CommitStatusCompleted))

	events, err := repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	eventID := events[0].ID

	require.NoError(t, repo.MarkEventAsProcessed(ctx, eventID))

	events, err = repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)

	// marking twice affects no rows
	err = repo.MarkEventAsProcessed(ctx, eventID)
	assert.Error(t, err)
}
