package checkout

import (
	"context"

	"github.com/dean3213321/inventory-pos/internal/backend"
	"github.com/dean3213321/inventory-pos/internal/domain"
	"github.com/dean3213321/inventory-pos/internal/repository"
)

// MockSubmissionAPI implements SubmissionAPI for testing
type MockSubmissionAPI struct {
	DecrementErr error
	AppendErr    error

	Calls           []string // order of backend calls
	DecrementLines  []domain.ReceiptLine
	IdempotencyKey  string
	AppendedReceipt *domain.Receipt
}

func (m *MockSubmissionAPI) DecrementStock(_ context.Context, lines []domain.ReceiptLine, idempotencyKey string) error {
	m.Calls = append(m.Calls, "decrement")
	m.DecrementLines = lines
	m.IdempotencyKey = idempotencyKey
	return m.DecrementErr
}

func (m *MockSubmissionAPI) AppendSalesRecord(_ context.Context, receipt domain.Receipt) error {
	m.Calls = append(m.Calls, "append")
	m.AppendedReceipt = &receipt
	return m.AppendErr
}

// MockJournal implements Journal for testing
type MockJournal struct {
	CreateErr   error
	UpdateErr   error
	CompleteErr error

	Created  *repository.CommitRecord
	Statuses []domain.CommitStatus // every status journaled after create
	Payload  []byte
}

func (m *MockJournal) CreateCommit(_ context.Context, commit *repository.CommitRecord) error {
	m.Created = commit
	return m.CreateErr
}

func (m *MockJournal) UpdateCommitStatus(_ context.Context, _ string, status domain.CommitStatus) error {
	m.Statuses = append(m.Statuses, status)
	return m.UpdateErr
}

func (m *MockJournal) CompleteCommit(_ context.Context, _ string, payload []byte, status domain.CommitStatus) error {
	m.Statuses = append(m.Statuses, status)
	m.Payload = payload
	if m.CompleteErr != nil {
		return m.CompleteErr
	}
	return nil
}

// MockRenderer implements Renderer for testing
type MockRenderer struct {
	Err      error
	Rendered []domain.Receipt
}

func (m *MockRenderer) Render(receipt domain.Receipt) error {
	m.Rendered = append(m.Rendered, receipt)
	return m.Err
}

// MockBuyerLookup implements BuyerLookup for testing
type MockBuyerLookup struct {
	Buyer domain.Buyer
	Err   error
	Tag   string
}

func (m *MockBuyerLookup) LookupBuyerTag(_ context.Context, tag string) (domain.Buyer, error) {
	m.Tag = tag
	if m.Err != nil {
		return domain.Buyer{}, m.Err
	}
	return m.Buyer, nil
}

// MockBuyerLister implements BuyerLister for testing
type MockBuyerLister struct {
	Records []backend.BuyerRecord
	Err     error
	Called  int
}

func (m *MockBuyerLister) Buyers(_ context.Context) ([]backend.BuyerRecord, error) {
	m.Called++
	return m.Records, m.Err
}
