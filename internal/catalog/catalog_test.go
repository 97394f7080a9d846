package catalog

import (
	"context"
	"testing"

	"github.com/hastilong/storefront/pkg/enums"
	pkgerrors "github.com/hastilong/storefront/pkg/errors"
	"github.com/hastilong/storefront/pkg/money"
	"github.com/shopspring/decimal"
)

func newSeededService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(SeedProducts())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestFeaturedReturnsSeededHighlights(t *testing.T) {
	svc := newSeededService(t)
	featured := svc.Featured(context.Background())
	if len(featured) != 4 {
		t.Fatalf("expected 4 featured products, got %d", len(featured))
	}
	if featured[0].Name != "Artisan Ceramic Vase" || featured[3].Name != "Modern Oak Chair" {
		t.Fatalf("unexpected featured order: %+v", featured)
	}
}

func TestByCategory(t *testing.T) {
	svc := newSeededService(t)
	puja := svc.ByCategory(context.Background(), enums.ProductCategoryPuja)
	if len(puja) != 4 {
		t.Fatalf("expected 4 puja products, got %d", len(puja))
	}
	for _, p := range puja {
		if p.Featured {
			t.Fatalf("puja product %d should not be featured", p.ID)
		}
	}

	toys := svc.ByCategory(context.Background(), enums.ProductCategoryToys)
	if len(toys) != 1 || toys[0].ID != 3 {
		t.Fatalf("unexpected toys: %+v", toys)
	}
}

func TestListCombinesFilters(t *testing.T) {
	svc := newSeededService(t)
	cat := enums.ProductCategoryPuja
	got := svc.List(context.Background(), ListFilter{Category: &cat, FeaturedOnly: true})
	if len(got) != 0 {
		t.Fatalf("expected no featured puja products, got %d", len(got))
	}
	if all := svc.List(context.Background(), ListFilter{}); len(all) != 8 {
		t.Fatalf("expected 8 products, got %d", len(all))
	}
}

func TestByIDNotFound(t *testing.T) {
	svc := newSeededService(t)
	if _, err := svc.ByID(context.Background(), 999); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	p, err := svc.ByID(context.Background(), 2)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if money.Format(p.Price) != "$45.99" {
		t.Fatalf("unexpected price %s", money.Format(p.Price))
	}
}

func TestUpdatePrice(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	updated, err := svc.UpdatePrice(ctx, 1, decimal.RequireFromString("79.50"))
	if err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}
	if money.Format(updated.Price) != "$79.50" {
		t.Fatalf("unexpected updated price %s", money.Format(updated.Price))
	}
	reloaded, _ := svc.ByID(ctx, 1)
	if !reloaded.Price.Equal(updated.Price) {
		t.Fatalf("price change not visible through ByID")
	}

	if _, err := svc.UpdatePrice(ctx, 1, decimal.NewFromInt(-1)); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.UpdatePrice(ctx, 404, decimal.NewFromInt(1)); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCategoriesCounts(t *testing.T) {
	svc := newSeededService(t)
	cats := svc.Categories(context.Background())
	if len(cats) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(cats))
	}
	want := map[enums.ProductCategory]int{
		enums.ProductCategoryHomeDecor:  1,
		enums.ProductCategoryArtsCrafts: 1,
		enums.ProductCategoryToys:       1,
		enums.ProductCategoryFurniture:  1,
		enums.ProductCategoryPuja:       4,
	}
	for _, c := range cats {
		if c.ProductCount != want[c.Category] {
			t.Fatalf("category %s: expected %d products, got %d", c.Category, want[c.Category], c.ProductCount)
		}
		if c.Description == "" {
			t.Fatalf("category %s missing description", c.Category)
		}
	}
}

func TestNewServiceRejectsDuplicates(t *testing.T) {
	products := []Product{
		{ID: 1, Name: "a", Category: enums.ProductCategoryToys},
		{ID: 1, Name: "b", Category: enums.ProductCategoryToys},
	}
	if _, err := NewService(products); err == nil {
		t.Fatal("expected duplicate id error")
	}
	if _, err := NewService([]Product{{ID: 2, Category: "Garden"}}); err == nil {
		t.Fatal("expected invalid category error")
	}
}
