package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/priyansupat/farmdirect-backend/api/middleware"
	"github.com/priyansupat/farmdirect-backend/api/responses"
	"github.com/priyansupat/farmdirect-backend/api/validators"
	"github.com/priyansupat/farmdirect-backend/internal/catalog"
	"github.com/priyansupat/farmdirect-backend/internal/reviews"
	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	"github.com/priyansupat/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
	"github.com/priyansupat/farmdirect-backend/pkg/logger"
	"github.com/priyansupat/farmdirect-backend/pkg/pagination"
)

type createProductPayload struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Description *string `json:"description,omitempty"`
	Price       string  `json:"price" validate:"required"`
	Unit        string  `json:"unit" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	ImagePath   *string `json:"image_path,omitempty"`
}

type updateProductPayload struct {
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *string  `json:"price,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	ImagePath   *string  `json:"image_path,omitempty"`
}

type productView struct {
	ID          int64                 `json:"id"`
	FarmerID    int64                 `json:"farmer_id"`
	FarmerName  string                `json:"farmer_name,omitempty"`
	Name        string                `json:"name"`
	Category    enums.ProductCategory `json:"category"`
	Description *string               `json:"description,omitempty"`
	Price       decimal.Decimal       `json:"price"`
	Unit        enums.ProductUnit     `json:"unit"`
	Quantity    float64               `json:"quantity_available"`
	ImagePath   *string               `json:"image_path,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

func newProductView(product *models.Product) productView {
	view := productView{
		ID:          product.ID,
		FarmerID:    product.FarmerID,
		Name:        product.Name,
		Category:    product.Category,
		Description: product.Description,
		Price:       product.Price,
		Unit:        product.Unit,
		Quantity:    product.QuantityAvailable,
		ImagePath:   product.ImagePath,
		CreatedAt:   product.CreatedAt,
	}
	if product.Farmer != nil {
		view.FarmerName = product.Farmer.FullName
	}
	return view
}

func newProductViews(products []models.Product) []productView {
	views := make([]productView, 0, len(products))
	for i := range products {
		views = append(views, newProductView(&products[i]))
	}
	return views
}

// ListProducts returns active listings, optionally filtered by search term and
// category.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		filter := catalog.ListFilter{
			Query: strings.TrimSpace(r.URL.Query().Get("q")),
			Page: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			filter.Category = &category
		}

		products, next, err := svc.ListActive(ctx, filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"products":    newProductViews(products),
			"next_cursor": next,
		})
	}
}

// GetProduct returns one listing with its reviews and rating summary.
func GetProduct(svc catalog.Service, reviewSvc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathID(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.GetByID(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rating, err := reviewSvc.Rating(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productReviews, err := reviewSvc.ListByProduct(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"product": newProductView(product),
			"rating":  rating,
			"reviews": newReviewViews(productReviews),
		})
	}
}

// CreateProduct adds a listing for the authenticated farmer.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		farmerID := middleware.UserIDFromContext(ctx)

		var payload createProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := createInputFromPayload(payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.Create(ctx, farmerID, *input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newProductView(product))
	}
}

// UpdateProduct patches a listing owned by the authenticated farmer.
func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		farmerID := middleware.UserIDFromContext(ctx)

		id, err := validators.ParsePathID(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := updateInputFromPayload(payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.Update(ctx, farmerID, id, *input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductView(product))
	}
}

// DeleteProduct soft-deletes a listing owned by the authenticated farmer.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		farmerID := middleware.UserIDFromContext(ctx)

		id, err := validators.ParsePathID(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, farmerID, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ListFarmerProducts returns the authenticated farmer's own listings.
func ListFarmerProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		farmerID := middleware.UserIDFromContext(ctx)

		products, err := svc.ListByFarmer(ctx, farmerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": newProductViews(products)})
	}
}

func createInputFromPayload(payload createProductPayload) (*catalog.CreateInput, error) {
	category, err := enums.ParseProductCategory(payload.Category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}
	unit, err := enums.ParseProductUnit(payload.Unit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
	}
	price, err := decimal.NewFromString(payload.Price)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}

	return &catalog.CreateInput{
		Name:        payload.Name,
		Category:    category,
		Description: payload.Description,
		Price:       price,
		Unit:        unit,
		Quantity:    payload.Quantity,
		ImagePath:   payload.ImagePath,
	}, nil
}

func updateInputFromPayload(payload updateProductPayload) (*catalog.UpdateInput, error) {
	input := &catalog.UpdateInput{
		Name:        payload.Name,
		Description: payload.Description,
		Quantity:    payload.Quantity,
		ImagePath:   payload.ImagePath,
	}

	if payload.Category != nil {
		category, err := enums.ParseProductCategory(*payload.Category)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}
	if payload.Unit != nil {
		unit, err := enums.ParseProductUnit(*payload.Unit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
		}
		input.Unit = &unit
	}
	if payload.Price != nil {
		price, err := decimal.NewFromString(*payload.Price)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		input.Price = &price
	}

	return input, nil
}
