package models

import "math"

// CartLine is a snapshot of a product taken when it was added to a cart.
// Amount is fixed at creation and never recomputed from the live price.
type CartLine struct {
	ID        string  `json:"id"`
	ProductID uint    `json:"productId"`
	Item      string  `json:"item"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
	Amount    float64 `json:"amount"`
	SellerID  uint    `json:"farmerId"`
}

type Cart struct {
	Items      []CartLine `json:"items"`
	GrandTotal float64    `json:"grandTotal"`
}

// RoundMoney keeps an amount to whole cents. Every stored amount and total
// goes through it so float error never grows past a cent.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func LineAmount(qty int, price float64) float64 {
	return RoundMoney(float64(qty) * price)
}

func CartTotal(lines []CartLine) float64 {
	var total float64
	for _, line := range lines {
		total = RoundMoney(total + line.Amount)
	}
	return total
}
