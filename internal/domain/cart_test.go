package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestEffectivePrice_PrefersDiscount(t *testing.T) {
	line := CartLine{Price: dec("5"), DiscountedPrice: decPtr("3")}
	assert.True(t, dec("3").Equal(line.EffectivePrice()))
}

func TestEffectivePrice_ListPriceWithoutDiscount(t *testing.T) {
	line := CartLine{Price: dec("5")}
	assert.True(t, dec("5").Equal(line.EffectivePrice()))
}

func TestTotal_RecomputedFromLines(t *testing.T) {
	cart := Cart{
		Lines: []CartLine{
			{ProductID: 1, Price: dec("10"), Quantity: 2},
			{ProductID: 2, Price: dec("5"), DiscountedPrice: decPtr("3"), Quantity: 1},
		},
	}
	// 10*2 + 3*1
	assert.True(t, dec("23").Equal(cart.Total()), "got %s", cart.Total())
}

func TestTotal_EmptyCartIsZero(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(Cart{}.Total()))
}

func TestProductLine_Hydration(t *testing.T) {
	p := Product{
		ID:              101,
		Name:            "keyboard",
		Price:           dec("25.50"),
		DiscountedPrice: decPtr("20"),
		Stock:           7,
		Image:           "http://example.com/image.jpg",
	}
	l := p.Line(3)
	assert.Equal(t, int64(101), l.ProductID)
	assert.Equal(t, "keyboard", l.Name)
	assert.Equal(t, 3, l.Quantity)
	assert.Equal(t, 7, l.Stock)
	assert.True(t, dec("60").Equal(l.TotalPrice))
}

func TestSubject(t *testing.T) {
	assert.True(t, Guest().IsGuest())
	assert.False(t, User(7).IsGuest())
	assert.Equal(t, int64(7), User(7).UserID)
}
