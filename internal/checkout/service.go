package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/priyansupat/farmdirect-backend/internal/cart"
	"github.com/priyansupat/farmdirect-backend/internal/catalog"
	"github.com/priyansupat/farmdirect-backend/internal/orders"
	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	"github.com/priyansupat/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service converts a cart snapshot into a committed order.
type Service interface {
	Execute(ctx context.Context, consumerID int64, snapshot []cart.Line, deliveryAddress, phone string) (int64, error)
}

type service struct {
	tx       txRunner
	orders   orders.Repository
	products catalog.Repository
}

// NewService builds a checkout service backed by the provided stack.
func NewService(tx txRunner, orderRepo orders.Repository, productRepo catalog.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{tx: tx, orders: orderRepo, products: productRepo}, nil
}

// Execute commits the snapshot as one order inside a single transaction.
// Each line freezes the snapshot price and decrements stock with a
// check-then-decrement conditional update. Any line that cannot be covered
// aborts the whole transaction; no partial orders are ever visible. The cart
// itself is not touched here, so a failed checkout leaves it intact.
func (s *service) Execute(ctx context.Context, consumerID int64, snapshot []cart.Line, deliveryAddress, phone string) (int64, error) {
	if consumerID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "consumer id is required")
	}
	if len(snapshot) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if strings.TrimSpace(deliveryAddress) == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if strings.TrimSpace(phone) == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	for _, line := range snapshot {
		if line.Quantity <= 0 {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
	}

	total := decimal.Zero
	for _, line := range snapshot {
		total = total.Add(line.Price.Mul(decimal.NewFromFloat(line.Quantity)))
	}

	var orderID int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orders.WithTx(tx)
		productRepo := s.products.WithTx(tx)

		order := &models.Order{
			ConsumerID:      consumerID,
			TotalAmount:     total,
			Status:          enums.OrderStatusPending,
			DeliveryAddress: strings.TrimSpace(deliveryAddress),
			Phone:           strings.TrimSpace(phone),
		}
		created, err := orderRepo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		items := make([]models.OrderItem, 0, len(snapshot))
		for _, line := range snapshot {
			qty := decimal.NewFromFloat(line.Quantity)
			items = append(items, models.OrderItem{
				OrderID:      created.ID,
				ProductID:    line.ProductID,
				FarmerID:     line.FarmerID,
				Quantity:     line.Quantity,
				PricePerUnit: line.Price,
				Subtotal:     line.Price.Mul(qty),
			})
		}
		if err := orderRepo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		for _, line := range snapshot {
			affected, err := productRepo.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if affected == 0 {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
					WithDetails(map[string]any{
						"product_id":   line.ProductID,
						"product_name": line.ProductName,
						"requested":    line.Quantity,
					})
			}
		}

		orderID = created.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}
