package menu

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/domain"
)

type menuService struct {
	repo   Repository
	txm    TxBeginner
	logger *zap.Logger
}

func NewService(repo Repository, txm TxBeginner, logger *zap.Logger) Service {
	return &menuService{
		repo:   repo,
		txm:    txm,
		logger: logger,
	}
}

func (s *menuService) ListMenu(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.List(ctx)
}

func (s *menuService) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	return s.repo.FindByID(ctx, id)
}

// Seed upserts items in a single transaction so a partially applied menu is
// never visible.
func (s *menuService) Seed(ctx context.Context, items []domain.MenuItem) (err error) {
	tx, err := s.txm.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", zap.Error(rbErr))
			}
		}
	}()

	if err = s.repo.Upsert(ctx, tx, items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}

	s.logger.Info("menu seeded", zap.Int("itemCount", len(items)))
	return nil
}
