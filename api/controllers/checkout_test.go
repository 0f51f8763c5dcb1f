package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/priyansupat/farmdirect-backend/api/middleware"
	"github.com/priyansupat/farmdirect-backend/internal/cart"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
)

type stubCheckoutService struct {
	orderID int64
	err     error

	gotConsumerID int64
	gotSnapshot   []cart.Line
}

func (s *stubCheckoutService) Execute(ctx context.Context, consumerID int64, snapshot []cart.Line, deliveryAddress, phone string) (int64, error) {
	s.gotConsumerID = consumerID
	s.gotSnapshot = snapshot
	return s.orderID, s.err
}

func TestCheckoutSuccessClearsCart(t *testing.T) {
	cartSvc := &stubCartService{lines: []cart.Line{tomatoLine()}}
	checkoutSvc := &stubCheckoutService{orderID: 42}
	handler := Checkout(cartSvc, checkoutSvc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout",
		strings.NewReader(`{"delivery_address": "12 Farm Rd", "phone": "9876543210"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), 11))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if checkoutSvc.gotConsumerID != 11 || len(checkoutSvc.gotSnapshot) != 1 {
		t.Fatalf("unexpected execute call: consumer=%d lines=%d",
			checkoutSvc.gotConsumerID, len(checkoutSvc.gotSnapshot))
	}
	if !cartSvc.cleared {
		t.Fatal("cart must be cleared after a committed order")
	}

	var envelope struct {
		Data checkoutView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderID != 42 || envelope.Data.Status != "pending" {
		t.Fatalf("unexpected view: %+v", envelope.Data)
	}
}

func TestCheckoutInsufficientStockKeepsCart(t *testing.T) {
	cartSvc := &stubCartService{lines: []cart.Line{tomatoLine()}}
	checkoutSvc := &stubCheckoutService{
		err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
			WithDetails(map[string]any{"product_id": int64(7), "product_name": "Tomatoes"}),
	}
	handler := Checkout(cartSvc, checkoutSvc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout",
		strings.NewReader(`{"delivery_address": "12 Farm Rd", "phone": "9876543210"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), 11))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if cartSvc.cleared {
		t.Fatal("cart must survive a failed checkout")
	}

	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInsufficientStock) {
		t.Fatalf("unexpected code: %s", envelope.Error.Code)
	}
	if envelope.Error.Details["product_name"] != "Tomatoes" {
		t.Fatalf("unexpected details: %+v", envelope.Error.Details)
	}
}

func TestCheckoutRequiresAddressAndPhone(t *testing.T) {
	cartSvc := &stubCartService{}
	checkoutSvc := &stubCheckoutService{}
	handler := Checkout(cartSvc, checkoutSvc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout",
		strings.NewReader(`{"delivery_address": ""}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), 11))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if checkoutSvc.gotConsumerID != 0 {
		t.Fatal("checkout must not run on invalid payload")
	}
}
