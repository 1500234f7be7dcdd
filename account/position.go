package account

import "github.com/shopspring/decimal"

// NewPosition returns a flat position for a symbol
func NewPosition(symbol string) *Position {
	return &Position{Symbol: symbol}
}

// Apply books a fill against the position. Quantity delta is signed, positive
// for buys and negative for sells. Same direction additions reweight the
// average entry price, opposing reductions realize profit against it
func (p *Position) Apply(qtyDelta, price decimal.Decimal) {
	if qtyDelta.IsZero() {
		return
	}
	if p.Quantity.IsZero() || p.Quantity.Sign() == qtyDelta.Sign() {
		total := p.Quantity.Abs().Add(qtyDelta.Abs())
		p.AvgEntryPrice = p.AvgEntryPrice.Mul(p.Quantity.Abs()).
			Add(price.Mul(qtyDelta.Abs())).
			Div(total)
		p.Quantity = p.Quantity.Add(qtyDelta)
		return
	}

	closed := decimal.Min(p.Quantity.Abs(), qtyDelta.Abs())
	direction := decimal.NewFromInt(int64(p.Quantity.Sign()))
	p.RealizedPnL = p.RealizedPnL.Add(price.Sub(p.AvgEntryPrice).Mul(closed).Mul(direction))
	p.Quantity = p.Quantity.Add(qtyDelta)

	switch {
	case p.Quantity.IsZero():
		p.AvgEntryPrice = decimal.Zero
		p.UnrealizedPnL = decimal.Zero
	case p.Quantity.Sign() != direction.Sign():
		// flipped through flat, the remainder opened at the fill price
		p.AvgEntryPrice = price
	}
}

// MarkToMarket recomputes unrealized profit from the latest observed price
func (p *Position) MarkToMarket(price decimal.Decimal) {
	if p.Quantity.IsZero() {
		p.UnrealizedPnL = decimal.Zero
		return
	}
	p.UnrealizedPnL = price.Sub(p.AvgEntryPrice).Mul(p.Quantity)
}

// IsFlat returns whether the position has no open quantity
func (p *Position) IsFlat() bool {
	return p.Quantity.IsZero()
}
