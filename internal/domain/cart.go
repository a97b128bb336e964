package domain

import "github.com/shopspring/decimal"

// Subject identifies who a cart belongs to. The zero value is the
// anonymous guest; an authenticated subject carries its user id.
type Subject struct {
	UserID int64 `json:"userid"`
}

func Guest() Subject {
	return Subject{}
}

func User(userID int64) Subject {
	return Subject{UserID: userID}
}

func (s Subject) IsGuest() bool {
	return s.UserID == 0
}

// GuestLine is the minimal record persisted in the local guest slot.
// Everything else on a CartLine is hydrated from the catalog.
type GuestLine struct {
	ProductID int64 `json:"productid"`
	Quantity  int   `json:"quantity"`
}

// CartLine is one entry of a cart as shown to the UI. The display
// fields are denormalized from the catalog and may go stale; totals
// are always derived from price and quantity, never trusted as stored.
type CartLine struct {
	ProductID       int64            `json:"productid"`
	Name            string           `json:"productname"`
	Quantity        int              `json:"quantity"`
	Stock           int              `json:"stock"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discountprice,omitempty"`
	Image           string           `json:"image,omitempty"`
	TotalPrice      decimal.Decimal  `json:"total_price"`
}

// EffectivePrice is the discounted price when one is set, the list
// price otherwise.
func (l CartLine) EffectivePrice() decimal.Decimal {
	if l.DiscountedPrice != nil {
		return *l.DiscountedPrice
	}
	return l.Price
}

type Cart struct {
	Subject Subject    `json:"subject"`
	Lines   []CartLine `json:"lines"`
}

// Total recomputes the cart total from its lines on every call.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.EffectivePrice().Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Product is a catalog record, the source for cart line hydration.
type Product struct {
	ID              int64            `json:"productid"`
	Name            string           `json:"productname"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discountprice,omitempty"`
	Stock           int              `json:"stock"`
	Image           string           `json:"image,omitempty"`
}

// Line builds the hydrated cart line for a given quantity of this product.
func (p Product) Line(quantity int) CartLine {
	l := CartLine{
		ProductID:       p.ID,
		Name:            p.Name,
		Quantity:        quantity,
		Stock:           p.Stock,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
		Image:           p.Image,
	}
	l.TotalPrice = l.EffectivePrice().Mul(decimal.NewFromInt(int64(quantity)))
	return l
}
