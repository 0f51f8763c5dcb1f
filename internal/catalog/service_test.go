package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	"github.com/priyansupat/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
)

func TestCreateValidatesInput(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(&stubProductRepo{})

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"empty name", CreateInput{Category: enums.ProductCategoryFruits, Unit: enums.ProductUnitKg}},
		{"bad category", CreateInput{Name: "Mangoes", Category: "Nonsense", Unit: enums.ProductUnitKg}},
		{"bad unit", CreateInput{Name: "Mangoes", Category: enums.ProductCategoryFruits, Unit: "bag"}},
		{"negative price", CreateInput{Name: "Mangoes", Category: enums.ProductCategoryFruits, Unit: enums.ProductUnitKg, Price: decimal.RequireFromString("-1")}},
		{"negative qty", CreateInput{Name: "Mangoes", Category: enums.ProductCategoryFruits, Unit: enums.ProductUnitKg, Quantity: -2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 5, tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestUpdateRejectsForeignProduct(t *testing.T) {
	t.Parallel()

	repo := &stubProductRepo{product: &models.Product{ID: 10, FarmerID: 5, Name: "Mangoes"}}
	svc := newTestCatalogService(repo)

	name := "Ripe Mangoes"
	_, err := svc.Update(context.Background(), 99, 10, UpdateInput{Name: &name})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	t.Parallel()

	repo := &stubProductRepo{product: &models.Product{
		ID: 10, FarmerID: 5, Name: "Mangoes",
		Category: enums.ProductCategoryFruits, Unit: enums.ProductUnitKg,
		Price: decimal.RequireFromString("60.00"), QuantityAvailable: 12,
	}}
	svc := newTestCatalogService(repo)

	qty := 30.0
	updated, err := svc.Update(context.Background(), 5, 10, UpdateInput{Quantity: &qty})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.QuantityAvailable != 30 {
		t.Fatalf("expected quantity 30, got %v", updated.QuantityAvailable)
	}
	if updated.Name != "Mangoes" || !updated.Price.Equal(decimal.RequireFromString("60.00")) {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestDeleteMissingProduct(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(&stubProductRepo{})

	err := svc.Delete(context.Background(), 5, 10)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func newTestCatalogService(repo Repository) Service {
	svc, err := NewService(repo)
	if err != nil {
		panic(err)
	}
	return svc
}

type stubProductRepo struct {
	product          *models.Product
	deactivatedCount int64
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) Repository { return s }
func (s *stubProductRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	return product, nil
}
func (s *stubProductRepo) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	return product, nil
}
func (s *stubProductRepo) Deactivate(ctx context.Context, id, farmerID int64) (int64, error) {
	return s.deactivatedCount, nil
}
func (s *stubProductRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if s.product == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.product, nil
}
func (s *stubProductRepo) ListActive(ctx context.Context, filter ListFilter) ([]models.Product, string, error) {
	return nil, "", nil
}
func (s *stubProductRepo) ListByFarmer(ctx context.Context, farmerID int64) ([]models.Product, error) {
	return nil, nil
}
func (s *stubProductRepo) DecrementStock(ctx context.Context, productID int64, qty float64) (int64, error) {
	return 0, nil
}
