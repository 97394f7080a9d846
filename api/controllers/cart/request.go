package cart

type addItemRequest struct {
	ProductID int `json:"product_id" validate:"required,min=1"`
}

// updateItemRequest accepts any integer; quantities below one remove the
// line.
type updateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type couponRequest struct {
	Code string `json:"code" validate:"max=64"`
}
