package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/priyansupat/farmdirect-backend/api/middleware"
	"github.com/priyansupat/farmdirect-backend/api/responses"
	"github.com/priyansupat/farmdirect-backend/api/validators"
	"github.com/priyansupat/farmdirect-backend/internal/cart"
	"github.com/priyansupat/farmdirect-backend/internal/checkout"
	"github.com/priyansupat/farmdirect-backend/pkg/logger"
)

type checkoutPayload struct {
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
}

type checkoutView struct {
	OrderID int64           `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
	Status  string          `json:"status"`
}

// Checkout snapshots the caller's cart and commits it as one order. The cart
// is cleared only after the order transaction has committed; a failed checkout
// leaves the cart untouched.
func Checkout(cartSvc cart.Service, checkoutSvc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		consumerID := middleware.UserIDFromContext(ctx)

		var payload checkoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snapshot, err := cartSvc.Snapshot(ctx, consumerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		orderID, err := checkoutSvc.Execute(ctx, consumerID, snapshot, payload.DeliveryAddress, payload.Phone)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := cartSvc.Clear(ctx, consumerID); err != nil {
			// The order is committed; a stale cart is recoverable, so log and
			// keep the success response.
			logg.Warn(logg.WithField(ctx, "order_id", orderID), "checkout.cart_clear_failed")
		}

		total := decimal.Zero
		for _, line := range snapshot {
			total = total.Add(line.Subtotal)
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutView{
			OrderID: orderID,
			Total:   total,
			Status:  "pending",
		})
	}
}
