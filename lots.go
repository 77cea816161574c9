package stockscanner

import (
	"github.com/adityazagade/stockscanner/date"
)

// Lot represents a single purchase of an instrument.
type Lot struct {
	Date     date.Date `json:"date"`
	Quantity Quantity  `json:"quantity"`
	Price    Money     `json:"price"`
}

// Cost returns the amount paid for the lot quantity still held.
func (l Lot) Cost() Money { return l.Price.Mul(l.Quantity) }

type lots []Lot

// quantity is the sum of all lot quantities.
func (l lots) quantity() Quantity {
	var q Quantity
	for _, x := range l {
		q = q.Add(x.Quantity)
	}
	return q
}

// cost is the sum of all lot costs.
func (l lots) cost() Money {
	var c Money
	for _, x := range l {
		c = c.Add(x.Cost())
	}
	return c
}

// sell consumes a quantity oldest lot first and returns the remaining lots.
// Lots older than the first partially consumed one are dropped, the partially
// consumed one keeps its date and price. The receiver is not modified.
func (l lots) sell(quantityToSell Quantity) lots {
	remainingLots := make(lots, 0, len(l))
	for _, currentLot := range l {
		if quantityToSell.IsZero() {
			remainingLots = append(remainingLots, currentLot)
			continue
		}
		if currentLot.Quantity.GreaterThan(quantityToSell) {
			// Partial sale from this lot
			currentLot.Quantity = currentLot.Quantity.Sub(quantityToSell)
			remainingLots = append(remainingLots, currentLot)
			quantityToSell = Quantity{}
		} else {
			// Full sale of this lot
			quantityToSell = quantityToSell.Sub(currentLot.Quantity)
		}
	}
	return remainingLots
}
