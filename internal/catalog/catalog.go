package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/hastilong/storefront/pkg/enums"
	pkgerrors "github.com/hastilong/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Prices are decimal amounts; formatting happens
// at the API boundary.
type Product struct {
	ID       int
	Name     string
	Price    decimal.Decimal
	Image    string
	Category enums.ProductCategory
	Featured bool
}

// Category summarizes a category for browsing.
type Category struct {
	Category     enums.ProductCategory
	Description  string
	Image        string
	ProductCount int
}

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	Category     *enums.ProductCategory
	FeaturedOnly bool
}

// Service exposes the in-memory storefront catalog.
type Service interface {
	List(ctx context.Context, filter ListFilter) []Product
	Featured(ctx context.Context) []Product
	ByCategory(ctx context.Context, category enums.ProductCategory) []Product
	ByID(ctx context.Context, id int) (Product, error)
	UpdatePrice(ctx context.Context, id int, price decimal.Decimal) (Product, error)
	Categories(ctx context.Context) []Category
}

type service struct {
	mu       sync.RWMutex
	products []Product
}

// NewService builds a catalog over the provided products. Ids must be
// positive and unique.
func NewService(products []Product) (Service, error) {
	seen := make(map[int]struct{}, len(products))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("product id must be positive (got %d)", p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		if !p.Category.IsValid() {
			return nil, fmt.Errorf("product %d has invalid category %q", p.ID, p.Category)
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return &service{products: out}, nil
}

func (s *service) List(_ context.Context, filter ListFilter) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.FeaturedOnly && !p.Featured {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *service) Featured(ctx context.Context) []Product {
	return s.List(ctx, ListFilter{FeaturedOnly: true})
}

func (s *service) ByCategory(ctx context.Context, category enums.ProductCategory) []Product {
	return s.List(ctx, ListFilter{Category: &category})
}

func (s *service) ByID(_ context.Context, id int) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return Product{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not found", id)
	}
	return s.products[idx], nil
}

// UpdatePrice changes a product price for every session. Edits live only as
// long as the process.
func (s *service) UpdatePrice(_ context.Context, id int, price decimal.Decimal) (Product, error) {
	if price.IsNegative() {
		return Product{}, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return Product{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not found", id)
	}
	s.products[idx].Price = price
	return s.products[idx], nil
}

func (s *service) Categories(_ context.Context) []Category {
	s.mu.RLock()
	counts := make(map[enums.ProductCategory]int)
	for _, p := range s.products {
		counts[p.Category]++
	}
	s.mu.RUnlock()

	all := enums.ProductCategories()
	out := make([]Category, 0, len(all))
	for _, c := range all {
		out = append(out, Category{
			Category:     c,
			Description:  categoryDescriptions[c],
			Image:        categoryImages[c],
			ProductCount: counts[c],
		})
	}
	return out
}

func (s *service) indexOf(id int) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
