package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/priyansupat/farmdirect-backend/api/middleware"
	"github.com/priyansupat/farmdirect-backend/api/responses"
	"github.com/priyansupat/farmdirect-backend/api/validators"
	"github.com/priyansupat/farmdirect-backend/internal/cart"
	"github.com/priyansupat/farmdirect-backend/pkg/logger"
)

type addCartItemPayload struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
}

type setCartQuantityPayload struct {
	Quantity float64 `json:"quantity"`
}

type cartLineView struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	FarmerName  string          `json:"farmer_name,omitempty"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Available   float64         `json:"quantity_available"`
	Quantity    float64         `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type cartView struct {
	Items []cartLineView  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func newCartView(lines []cart.Line) cartView {
	view := cartView{
		Items: make([]cartLineView, 0, len(lines)),
		Total: decimal.Zero,
	}
	for _, line := range lines {
		view.Items = append(view.Items, cartLineView{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			FarmerName:  line.FarmerName,
			Unit:        line.Unit.String(),
			Price:       line.Price,
			Available:   line.Available,
			Quantity:    line.Quantity,
			Subtotal:    line.Subtotal,
		})
		view.Total = view.Total.Add(line.Subtotal)
	}
	return view
}

// GetCart returns the caller's cart joined with live product data.
func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		consumerID := middleware.UserIDFromContext(ctx)

		lines, err := svc.Snapshot(ctx, consumerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(lines))
	}
}

// AddCartItem merges a quantity onto the caller's cart line for a product.
func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		consumerID := middleware.UserIDFromContext(ctx)

		var payload addCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Add(ctx, consumerID, payload.ProductID, payload.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lines, err := svc.Snapshot(ctx, consumerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(lines))
	}
}

// SetCartItemQuantity replaces a line quantity. Zero or below removes the line.
func SetCartItemQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		consumerID := middleware.UserIDFromContext(ctx)

		productID, err := validators.ParsePathID(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload setCartQuantityPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.SetQuantity(ctx, consumerID, productID, payload.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lines, err := svc.Snapshot(ctx, consumerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(lines))
	}
}
