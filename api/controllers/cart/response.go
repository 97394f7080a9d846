package cart

import (
	cartsvc "github.com/hastilong/storefront/internal/cart"
	"github.com/hastilong/storefront/pkg/money"
)

type itemResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type cartResponse struct {
	Items           []itemResponse `json:"items"`
	Count           int            `json:"count"`
	DiscountPercent int            `json:"discount_percent"`
	Subtotal        string         `json:"subtotal"`
	Discount        string         `json:"discount"`
	Total           string         `json:"total"`
}

type couponResponse struct {
	Applied bool         `json:"applied"`
	Cart    cartResponse `json:"cart"`
}

func newCartResponse(snap cartsvc.Snapshot) cartResponse {
	items := make([]itemResponse, 0, len(snap.Items))
	for _, item := range snap.Items {
		items = append(items, itemResponse{
			ID:        item.ID,
			Name:      item.Name,
			Price:     money.Format(item.Price),
			Category:  item.Category.String(),
			Quantity:  item.Quantity,
			LineTotal: money.Format(item.LineTotal()),
		})
	}
	// Discount is derived from the displayed amounts so the three figures add up.
	subtotal := money.Round(snap.Subtotal)
	total := money.Round(snap.Total)
	return cartResponse{
		Items:           items,
		Count:           snap.Count,
		DiscountPercent: snap.DiscountPercent,
		Subtotal:        money.Format(subtotal),
		Discount:        money.Format(subtotal.Sub(total)),
		Total:           money.Format(total),
	}
}
