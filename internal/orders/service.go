package orders

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	"github.com/priyansupat/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes order lifecycle and reporting operations.
type Service interface {
	Transition(ctx context.Context, farmerID, orderID int64, next enums.OrderStatus) (*models.Order, error)
	ListByConsumer(ctx context.Context, consumerID int64) ([]models.Order, error)
	ListByFarmer(ctx context.Context, farmerID int64) ([]models.Order, error)
	Items(ctx context.Context, requesterID, orderID int64, role enums.UserRole) ([]models.OrderItem, error)
	Stats(ctx context.Context, farmerID int64) (*FarmerStats, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an orders service backed by the provided stack.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Transition moves the order to the next status. Only legal edges of the
// lifecycle are accepted; a same-status request is treated as an idempotent
// no-op. The farmer must own at least one line item of the order.
func (s *service) Transition(ctx context.Context, farmerID, orderID int64, next enums.OrderStatus) (*models.Order, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		// Load the order first so a missing order reads as not found rather
		// than as an ownership failure.
		order, err := txRepo.GetByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		count, err := txRepo.CountFarmerItems(ctx, orderID, farmerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order ownership")
		}
		if count == 0 {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order has no items from this farmer")
		}

		if order.Status == next {
			updated = order
			return nil
		}
		if !order.Status.CanTransitionTo(next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").
				WithDetails(map[string]any{
					"current":   order.Status,
					"requested": next,
				})
		}

		if err := txRepo.UpdateStatus(ctx, orderID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = next
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) ListByConsumer(ctx context.Context, consumerID int64) ([]models.Order, error) {
	records, err := s.repo.ListByConsumer(ctx, consumerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list consumer orders")
	}
	return records, nil
}

func (s *service) ListByFarmer(ctx context.Context, farmerID int64) ([]models.Order, error) {
	records, err := s.repo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farmer orders")
	}
	return records, nil
}

// Items returns the order's frozen line items. Consumers can only read their
// own orders; farmers must own at least one item.
func (s *service) Items(ctx context.Context, requesterID, orderID int64, role enums.UserRole) ([]models.OrderItem, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	switch role {
	case enums.UserRoleConsumer:
		if order.ConsumerID != requesterID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another consumer")
		}
	case enums.UserRoleFarmer:
		count, err := s.repo.CountFarmerItems(ctx, orderID, requesterID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order ownership")
		}
		if count == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order has no items from this farmer")
		}
	case enums.UserRoleAdmin:
		// admins can read any order
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	items, err := s.repo.ItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
	}
	return items, nil
}

func (s *service) Stats(ctx context.Context, farmerID int64) (*FarmerStats, error) {
	stats, err := s.repo.FarmerStats(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farmer stats")
	}
	return stats, nil
}
