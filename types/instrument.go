package types

import (
	"github.com/shopspring/decimal"
)

// Instrument is a tradable asset in the investment universe. It is
// immutable once constructed; a price update would replace the whole value.
type Instrument struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

func NewInstrument(symbol string, price decimal.Decimal) Instrument {
	return Instrument{
		Symbol: symbol,
		Price:  price,
	}
}
