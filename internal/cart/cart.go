// Package cart holds the caller-owned shopping cart passed into booking.
package cart

// Line is one desired service at one shop, at the price quoted when it was
// added to the cart.
type Line struct {
	BarbershopID   uint    `json:"barbershop_id" binding:"required"`
	BarbershopName string  `json:"barbershop_name"`
	ServiceID      uint    `json:"service_id" binding:"required"`
	ServiceName    string  `json:"service_name"`
	Price          float64 `json:"price" binding:"gte=0"`
}

type Cart []Line

// From returns a copy of the lines starting at index i.
func (c Cart) From(i int) Cart {
	if i >= len(c) {
		return Cart{}
	}
	out := make(Cart, len(c)-i)
	copy(out, c[i:])
	return out
}
