package catalog

import (
	"github.com/hastilong/storefront/pkg/enums"
	"github.com/hastilong/storefront/pkg/money"
)

const (
	imageHomeDecor  = "/assets/home-decor-hero.jpg"
	imageArtsCrafts = "/assets/arts-crafts.jpg"
	imageToys       = "/assets/toys.jpg"
	imageFurniture  = "/assets/furniture.jpg"
)

// SeedProducts returns the catalog the storefront ships with.
func SeedProducts() []Product {
	return []Product{
		{ID: 1, Name: "Artisan Ceramic Vase", Price: money.MustParse("$89.99"), Image: imageHomeDecor, Category: enums.ProductCategoryHomeDecor, Featured: true},
		{ID: 2, Name: "Handmade Watercolor Set", Price: money.MustParse("$45.99"), Image: imageArtsCrafts, Category: enums.ProductCategoryArtsCrafts, Featured: true},
		{ID: 3, Name: "Wooden Teddy Bear", Price: money.MustParse("$34.99"), Image: imageToys, Category: enums.ProductCategoryToys, Featured: true},
		{ID: 4, Name: "Modern Oak Chair", Price: money.MustParse("$299.99"), Image: imageFurniture, Category: enums.ProductCategoryFurniture, Featured: true},
		{ID: 100, Name: "Brass Diya Set", Price: money.MustParse("$29.99"), Image: imageHomeDecor, Category: enums.ProductCategoryPuja},
		{ID: 101, Name: "Incense Holder", Price: money.MustParse("$19.99"), Image: imageHomeDecor, Category: enums.ProductCategoryPuja},
		{ID: 102, Name: "Prayer Bell", Price: money.MustParse("$24.99"), Image: imageHomeDecor, Category: enums.ProductCategoryPuja},
		{ID: 103, Name: "Sacred Thali", Price: money.MustParse("$39.99"), Image: imageHomeDecor, Category: enums.ProductCategoryPuja},
	}
}

var categoryDescriptions = map[enums.ProductCategory]string{
	enums.ProductCategoryHomeDecor:  "Elegant pieces for your living space",
	enums.ProductCategoryArtsCrafts: "Handmade creativity at its finest",
	enums.ProductCategoryToys:       "Delightful treasures for little ones",
	enums.ProductCategoryFurniture:  "Timeless pieces for every room",
	enums.ProductCategoryPuja:       "Essentials for daily worship",
}

var categoryImages = map[enums.ProductCategory]string{
	enums.ProductCategoryHomeDecor:  imageHomeDecor,
	enums.ProductCategoryArtsCrafts: imageArtsCrafts,
	enums.ProductCategoryToys:       imageToys,
	enums.ProductCategoryFurniture:  imageFurniture,
	enums.ProductCategoryPuja:       imageHomeDecor,
}
