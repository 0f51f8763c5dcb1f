package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeInsufficientStock, http.StatusConflict},
		{CodeModelUnavailable, http.StatusServiceUnavailable},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		meta := MetadataFor(tc.code)
		if meta.HTTPStatus != tc.status {
			t.Errorf("%s: expected status %d, got %d", tc.code, tc.status, meta.HTTPStatus)
		}
	}
}

func TestInsufficientStockAllowsDetails(t *testing.T) {
	t.Parallel()

	if !MetadataFor(CodeInsufficientStock).DetailsAllowed {
		t.Fatal("expected insufficient stock to expose details")
	}
	if MetadataFor(CodeInternal).DetailsAllowed {
		t.Fatal("internal errors must never expose details")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := Wrap(CodeDependency, cause, "loading data")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	typed := As(err)
	if typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("unexpected typed error: %+v", typed)
	}
}

func TestAsReturnsNilForForeignErrors(t *testing.T) {
	t.Parallel()

	if As(errors.New("plain")) != nil {
		t.Fatal("expected nil for non-platform error")
	}
	if As(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := New(CodeInsufficientStock, "insufficient stock").
		WithDetails(map[string]any{"product_id": int64(7)})

	typed := As(err)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["product_id"] != int64(7) {
		t.Fatalf("unexpected details: %+v", typed.Details())
	}
}
