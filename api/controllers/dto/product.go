// Package dto holds the JSON shapes shared by the storefront handlers.
package dto

import (
	"github.com/hastilong/storefront/internal/catalog"
	"github.com/hastilong/storefront/pkg/money"
)

type Product struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	Amount       string `json:"amount"`
	Image        string `json:"image"`
	Category     string `json:"category"`
	CategorySlug string `json:"category_slug"`
	Featured     bool   `json:"featured"`
}

type Category struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	ProductCount int    `json:"product_count"`
}

func NewProduct(p catalog.Product) Product {
	return Product{
		ID:           p.ID,
		Name:         p.Name,
		Price:        money.Format(p.Price),
		Amount:       money.Round(p.Price).StringFixed(2),
		Image:        p.Image,
		Category:     p.Category.String(),
		CategorySlug: p.Category.Slug(),
		Featured:     p.Featured,
	}
}

func NewProducts(products []catalog.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, NewProduct(p))
	}
	return out
}

func NewCategories(categories []catalog.Category) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, Category{
			Name:         c.Category.String(),
			Slug:         c.Category.Slug(),
			Description:  c.Description,
			Image:        c.Image,
			ProductCount: c.ProductCount,
		})
	}
	return out
}
