package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dean3213321/inventory-pos/internal/backend"
	"github.com/dean3213321/inventory-pos/internal/domain"
)

// MockListSource implements ListSource for testing
type MockListSource struct {
	mu           sync.Mutex
	Products     []domain.Product
	Buyers       []backend.BuyerRecord
	Err          error
	ProductCalls int
	BuyerCalls   int
}

func (m *MockListSource) GetProducts(_ context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProductCalls++
	return m.Products, m.Err
}

func (m *MockListSource) ListBuyers(_ context.Context) ([]backend.BuyerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BuyerCalls++
	return m.Buyers, m.Err
}

// MockListCache implements ListCache for testing
type MockListCache struct {
	mu       sync.Mutex
	products []domain.Product
	buyers   []backend.BuyerRecord
	GetErr   error
	Deleted  bool
}

func (m *MockListCache) GetProducts(_ context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.products == nil {
		return nil, ErrCacheMiss
	}
	return m.products, nil
}

func (m *MockListCache) SetProducts(_ context.Context, products []domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = products
	return nil
}

func (m *MockListCache) GetBuyers(_ context.Context) ([]backend.BuyerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.buyers == nil {
		return nil, ErrCacheMiss
	}
	return m.buyers, nil
}

func (m *MockListCache) SetBuyers(_ context.Context, buyers []backend.BuyerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buyers = buyers
	return nil
}

func (m *MockListCache) DeleteProducts(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = nil
	m.Deleted = true
	return nil
}

func (m *MockListCache) hasProducts() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products != nil
}

func TestCatalog_ProductsMissFetchesSource(t *testing.T) {
	source := &MockListSource{Products: []domain.Product{{ID: 1, Name: "Bond Paper"}}}
	mock := &MockListCache{}
	catalog := NewCatalog(source, mock)

	products, err := catalog.Products(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, source.ProductCalls)

	// population is asynchronous
	require.Eventually(t, mock.hasProducts, time.Second, 10*time.Millisecond)
}

func TestCatalog_ProductsHitSkipsSource(t *testing.T) {
	source := &MockListSource{}
	mock := &MockListCache{products: []domain.Product{{ID: 1}}}
	catalog := NewCatalog(source, mock)

	products, err := catalog.Products(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Zero(t, source.ProductCalls)
}

func TestCatalog_CacheErrorDegradesToSource(t *testing.T) {
	source := &MockListSource{Products: []domain.Product{{ID: 1}}}
	mock := &MockListCache{GetErr: errors.New("redis down")}
	catalog := NewCatalog(source, mock)

	products, err := catalog.Products(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, source.ProductCalls)
}

func TestCatalog_SourceErrorSurfaces(t *testing.T) {
	source := &MockListSource{Err: errors.New("backend down")}
	catalog := NewCatalog(source, &MockListCache{})

	_, err := catalog.Products(context.Background())
	assert.Error(t, err)

	_, err = catalog.Buyers(context.Background())
	assert.Error(t, err)
}

func TestCatalog_BuyersMissFetchesSource(t *testing.T) {
	source := &MockListSource{Buyers: []backend.BuyerRecord{{BuyerID: 1, FirstName: "Ana"}}}
	mock := &MockListCache{}
	catalog := NewCatalog(source, mock)

	buyers, err := catalog.Buyers(context.Background())

	require.NoError(t, err)
	require.Len(t, buyers, 1)
	assert.Equal(t, 1, source.BuyerCalls)
}

func TestCatalog_InvalidateProducts(t *testing.T) {
	mock := &MockListCache{products: []domain.Product{{ID: 1}}}
	catalog := NewCatalog(&MockListSource{}, mock)

	catalog.InvalidateProducts(context.Background())

	assert.True(t, mock.Deleted)
	assert.False(t, mock.hasProducts())
}
