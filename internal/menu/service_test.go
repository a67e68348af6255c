package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/testutil"
)

type mockRepository struct {
	ListFunc     func(ctx context.Context) ([]domain.MenuItem, error)
	FindByIDFunc func(ctx context.Context, id string) (*domain.MenuItem, error)
	UpsertFunc   func(ctx context.Context, ex mysql.Executor, items []domain.MenuItem) error
}

func (m *mockRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockRepository) FindByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockRepository) Upsert(ctx context.Context, ex mysql.Executor, items []domain.MenuItem) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, ex, items)
	}
	return nil
}

func sampleItems() []domain.MenuItem {
	return []domain.MenuItem{
		{ID: "1", Name: "Margherita Pizza", Price: decimal.RequireFromString("12.99")},
		{ID: "7", Name: "Coca Cola", Price: decimal.RequireFromString("2.99"), Position: 1},
	}
}

func TestService_ListMenu(t *testing.T) {
	repo := &mockRepository{
		ListFunc: func(ctx context.Context) ([]domain.MenuItem, error) {
			return sampleItems(), nil
		},
	}
	svc := NewService(repo, &testutil.FakeTxManager{}, zap.NewNop())

	items, err := svc.ListMenu(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestService_Seed_CommitsOnce(t *testing.T) {
	txm := &testutil.FakeTxManager{}
	var upserted []domain.MenuItem
	repo := &mockRepository{
		UpsertFunc: func(ctx context.Context, ex mysql.Executor, items []domain.MenuItem) error {
			assert.Same(t, txm.Tx, ex)
			upserted = items
			return nil
		},
	}
	svc := NewService(repo, txm, zap.NewNop())

	require.NoError(t, svc.Seed(context.Background(), sampleItems()))

	assert.Len(t, upserted, 2)
	assert.Equal(t, 1, txm.Tx.Commits)
	assert.Equal(t, 0, txm.Tx.Rollbacks)
}

func TestService_Seed_RollsBackOnUpsertError(t *testing.T) {
	txm := &testutil.FakeTxManager{}
	repo := &mockRepository{
		UpsertFunc: func(ctx context.Context, ex mysql.Executor, items []domain.MenuItem) error {
			return errors.New("boom")
		},
	}
	svc := NewService(repo, txm, zap.NewNop())

	err := svc.Seed(context.Background(), sampleItems())
	assert.Error(t, err)
	assert.Equal(t, 0, txm.Tx.Commits)
	assert.Equal(t, 1, txm.Tx.Rollbacks)
}

func TestService_Seed_BeginError(t *testing.T) {
	txm := &testutil.FakeTxManager{BeginErr: errors.New("no connection")}
	svc := NewService(&mockRepository{}, txm, zap.NewNop())

	err := svc.Seed(context.Background(), sampleItems())
	assert.ErrorContains(t, err, "no connection")
}
