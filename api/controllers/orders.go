package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/priyansupat/farmdirect-backend/api/middleware"
	"github.com/priyansupat/farmdirect-backend/api/responses"
	"github.com/priyansupat/farmdirect-backend/api/validators"
	"github.com/priyansupat/farmdirect-backend/internal/orders"
	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	"github.com/priyansupat/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
	"github.com/priyansupat/farmdirect-backend/pkg/logger"
)

type updateOrderStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

type orderView struct {
	ID              int64             `json:"id"`
	ConsumerID      int64             `json:"consumer_id"`
	ConsumerName    string            `json:"consumer_name,omitempty"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	Status          enums.OrderStatus `json:"status"`
	DeliveryAddress string            `json:"delivery_address"`
	Phone           string            `json:"phone"`
	CreatedAt       time.Time         `json:"created_at"`
}

type orderItemView struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name,omitempty"`
	FarmerID     int64           `json:"farmer_id"`
	Quantity     float64         `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

func newOrderView(order *models.Order) orderView {
	view := orderView{
		ID:              order.ID,
		ConsumerID:      order.ConsumerID,
		TotalAmount:     order.TotalAmount,
		Status:          order.Status,
		DeliveryAddress: order.DeliveryAddress,
		Phone:           order.Phone,
		CreatedAt:       order.CreatedAt,
	}
	if order.Consumer != nil {
		view.ConsumerName = order.Consumer.FullName
	}
	return view
}

func newOrderViews(records []models.Order) []orderView {
	views := make([]orderView, 0, len(records))
	for i := range records {
		views = append(views, newOrderView(&records[i]))
	}
	return views
}

func newOrderItemViews(items []models.OrderItem) []orderItemView {
	views := make([]orderItemView, 0, len(items))
	for _, item := range items {
		view := orderItemView{
			ID:           item.ID,
			ProductID:    item.ProductID,
			FarmerID:     item.FarmerID,
			Quantity:     item.Quantity,
			PricePerUnit: item.PricePerUnit,
			Subtotal:     item.Subtotal,
		}
		if item.Product != nil {
			view.ProductName = item.Product.Name
		}
		views = append(views, view)
	}
	return views
}

// ListConsumerOrders returns the caller's own orders, newest first.
func ListConsumerOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		consumerID := middleware.UserIDFromContext(ctx)

		records, err := svc.ListByConsumer(ctx, consumerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"orders": newOrderViews(records)})
	}
}

// ListFarmerOrders returns orders containing at least one of the farmer's items.
func ListFarmerOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		farmerID := middleware.UserIDFromContext(ctx)

		records, err := svc.ListByFarmer(ctx, farmerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"orders": newOrderViews(records)})
	}
}

// UpdateOrderStatus moves an order along its lifecycle on behalf of a farmer
// who owns at least one of its items.
func UpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		farmerID := middleware.UserIDFromContext(ctx)

		orderID, err := validators.ParsePathID(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateOrderStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		next, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		order, err := svc.Transition(ctx, farmerID, orderID, next)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderView(order))
	}
}

// GetOrderItems returns the frozen line items for an order the caller may read.
func GetOrderItems(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requesterID := middleware.UserIDFromContext(ctx)

		orderID, err := validators.ParsePathID(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(middleware.RoleFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "access denied"))
			return
		}

		items, err := svc.Items(ctx, requesterID, orderID, role)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": newOrderItemViews(items)})
	}
}

// GetFarmerStats returns listing, order, and revenue counters for the caller.
func GetFarmerStats(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		farmerID := middleware.UserIDFromContext(ctx)

		stats, err := svc.Stats(ctx, farmerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
