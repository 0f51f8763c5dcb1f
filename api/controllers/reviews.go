package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/priyansupat/farmdirect-backend/api/middleware"
	"github.com/priyansupat/farmdirect-backend/api/responses"
	"github.com/priyansupat/farmdirect-backend/api/validators"
	"github.com/priyansupat/farmdirect-backend/internal/reviews"
	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	"github.com/priyansupat/farmdirect-backend/pkg/logger"
)

type addReviewPayload struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty"`
}

type reviewView struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	ConsumerID   int64     `json:"consumer_id"`
	ConsumerName string    `json:"consumer_name,omitempty"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func newReviewView(review *models.Review) reviewView {
	view := reviewView{
		ID:         review.ID,
		ProductID:  review.ProductID,
		ConsumerID: review.ConsumerID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}
	if review.Consumer != nil {
		view.ConsumerName = review.Consumer.FullName
	}
	return view
}

func newReviewViews(records []models.Review) []reviewView {
	views := make([]reviewView, 0, len(records))
	for i := range records {
		views = append(views, newReviewView(&records[i]))
	}
	return views
}

// AddReview records the caller's rating on a product.
func AddReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		consumerID := middleware.UserIDFromContext(ctx)

		productID, err := validators.ParsePathID(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addReviewPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		review, err := svc.Add(ctx, consumerID, productID, payload.Rating, payload.Comment)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newReviewView(review))
	}
}
