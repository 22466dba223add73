package types

import (
	"github.com/shopspring/decimal"
)

type Side string

const (
	SideTypeBuy  Side = "BUY"
	SideTypeSell Side = "SELL"
)

// Order is a rebalance order: a currency amount to buy or sell of a symbol.
// Amounts are always positive; the direction lives in Side.
type Order struct {
	Symbol string          `json:"symbol"`
	Side   Side            `json:"side"`
	Amount decimal.Decimal `json:"amount"`
}

func NewOrder(symbol string, side Side, amount decimal.Decimal) Order {
	return Order{
		Symbol: symbol,
		Side:   side,
		Amount: amount,
	}
}

// RebalancePlan is an ephemeral artifact: computed from one value snapshot,
// optionally executed once, then discarded. Executing a stale plan is
// permitted but may not land on the target allocation.
type RebalancePlan struct {
	Buy  []Order `json:"buy"`
	Sell []Order `json:"sell"`
}

func (p RebalancePlan) IsEmpty() bool {
	return len(p.Buy) == 0 && len(p.Sell) == 0
}
