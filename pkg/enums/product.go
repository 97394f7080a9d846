package enums

import (
	"fmt"
	"strings"
)

// ProductCategory represents the fixed set of storefront categories.
type ProductCategory string

const (
	ProductCategoryHomeDecor  ProductCategory = "Home Decor"
	ProductCategoryArtsCrafts ProductCategory = "Arts & Crafts"
	ProductCategoryToys       ProductCategory = "Toys"
	ProductCategoryFurniture  ProductCategory = "Furniture"
	ProductCategoryPuja       ProductCategory = "Puja"
)

var validProductCategories = []ProductCategory{
	ProductCategoryHomeDecor,
	ProductCategoryArtsCrafts,
	ProductCategoryToys,
	ProductCategoryFurniture,
	ProductCategoryPuja,
}

// ProductCategories returns the categories in display order.
func ProductCategories() []ProductCategory {
	out := make([]ProductCategory, len(validProductCategories))
	copy(out, validProductCategories)
	return out
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// Slug returns the URL-friendly form, e.g. "arts-crafts".
func (c ProductCategory) Slug() string {
	return slugify(string(c))
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory accepts either the display name (any case) or the slug.
func ParseProductCategory(value string) (ProductCategory, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validProductCategories {
		if strings.EqualFold(string(candidate), trimmed) || candidate.Slug() == strings.ToLower(trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

func slugify(value string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
