package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/priyansupat/farmdirect-backend/api/middleware"
	"github.com/priyansupat/farmdirect-backend/internal/cart"
	"github.com/priyansupat/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
)

type stubCartService struct {
	lines   []cart.Line
	addErr  error
	setErr  error
	snapErr error

	addedProductID int64
	addedDelta     float64
	setQty         float64
	cleared        bool
}

func (s *stubCartService) Add(ctx context.Context, consumerID, productID int64, delta float64) error {
	s.addedProductID = productID
	s.addedDelta = delta
	return s.addErr
}

func (s *stubCartService) SetQuantity(ctx context.Context, consumerID, productID int64, qty float64) error {
	s.setQty = qty
	return s.setErr
}

func (s *stubCartService) Snapshot(ctx context.Context, consumerID int64) ([]cart.Line, error) {
	return s.lines, s.snapErr
}

func (s *stubCartService) Clear(ctx context.Context, consumerID int64) error {
	s.cleared = true
	return nil
}

func tomatoLine() cart.Line {
	price := decimal.RequireFromString("40.00")
	return cart.Line{
		ProductID:   7,
		ProductName: "Tomatoes",
		FarmerID:    3,
		FarmerName:  "Ravi",
		Unit:        enums.ProductUnitKg,
		Price:       price,
		Available:   10,
		Quantity:    2,
		Subtotal:    price.Mul(decimal.NewFromInt(2)),
	}
}

func TestGetCartSuccess(t *testing.T) {
	svc := &stubCartService{lines: []cart.Line{tomatoLine()}}
	handler := GetCart(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 11))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 || envelope.Data.Items[0].ProductName != "Tomatoes" {
		t.Fatalf("unexpected items: %+v", envelope.Data.Items)
	}
	if !envelope.Data.Total.Equal(decimal.RequireFromString("80.00")) {
		t.Fatalf("unexpected total: %s", envelope.Data.Total)
	}
}

func TestAddCartItemValidatesBody(t *testing.T) {
	svc := &stubCartService{}
	handler := AddCartItem(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items",
		strings.NewReader(`{"product_id": 0, "quantity": -1}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), 11))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.addedProductID != 0 {
		t.Fatal("service must not be called on invalid payload")
	}
}

func TestAddCartItemReturnsFreshCart(t *testing.T) {
	svc := &stubCartService{lines: []cart.Line{tomatoLine()}}
	handler := AddCartItem(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items",
		strings.NewReader(`{"product_id": 7, "quantity": 2}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), 11))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.addedProductID != 7 || svc.addedDelta != 2 {
		t.Fatalf("unexpected add call: product=%d delta=%v", svc.addedProductID, svc.addedDelta)
	}
}

func TestAddCartItemUnknownProduct(t *testing.T) {
	svc := &stubCartService{addErr: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := AddCartItem(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items",
		strings.NewReader(`{"product_id": 99, "quantity": 2}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), 11))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
