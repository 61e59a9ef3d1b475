package gateway

import (
	"context"

	"TrendSentinel/internal/model"
)

// Fetcher defines the interface for fetching market data from an upstream API.
type Fetcher interface {
	ListPools(ctx context.Context) ([]model.Pool, error)
	ListTrades(ctx context.Context, poolID string) ([]model.Trade, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	PoolsData  []model.Pool
	TradesData map[string][]model.Trade
	PoolsErr   error
	TradesErr  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) ListPools(_ context.Context) ([]model.Pool, error) {
	if m.PoolsErr != nil {
		return nil, m.PoolsErr
	}
	return m.PoolsData, nil
}

func (m *MockFetcher) ListTrades(_ context.Context, poolID string) ([]model.Trade, error) {
	if m.TradesErr != nil {
		return nil, m.TradesErr
	}
	return m.TradesData[poolID], nil
}
