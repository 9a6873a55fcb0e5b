package domain

// CartLine is one product in the preview cart. A product appears on at most
// one line; adding it again increments Quantity.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the storefront preview shopping cart. TotalItems and TotalPrice
// are derived from Items — the builder recomputes them after every cart
// mutation rather than patching them incrementally.
type Cart struct {
	Items      []CartLine `json:"items"`
	IsOpen     bool       `json:"isOpen"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

// Recompute rebuilds the denormalized totals from the line items.
func (c *Cart) Recompute() {
	c.TotalItems = 0
	c.TotalPrice = 0
	for _, line := range c.Items {
		c.TotalItems += line.Quantity
		c.TotalPrice += line.Product.Price * float64(line.Quantity)
	}
}
