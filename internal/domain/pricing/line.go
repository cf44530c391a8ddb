package pricing

import (
	"errors"
)

var (
	ErrInvalidLineQuantity = errors.New("line quantity must be at least 1")
	ErrInvalidLineDuration = errors.New("line duration must be at least 1 hour")
)

// Line is one cart entry. Timed lines (rooms, equipment) price by
// rate x hours x quantity; product lines by unit price x quantity.
type Line interface {
	TotalCents() int64
	Units() int
}

type TimedLine struct {
	rateCents     int64
	durationHours int
	quantity      int
}

func NewTimedLine(rateCents int64, durationHours, quantity int) (TimedLine, error) {
	if quantity < 1 {
		return TimedLine{}, ErrInvalidLineQuantity
	}
	if durationHours < 1 {
		return TimedLine{}, ErrInvalidLineDuration
	}
	if rateCents < 0 {
		return TimedLine{}, ErrNegativeMoney
	}
	return TimedLine{rateCents: rateCents, durationHours: durationHours, quantity: quantity}, nil
}

func (l TimedLine) TotalCents() int64 {
	return l.rateCents * int64(l.durationHours) * int64(l.quantity)
}

func (l TimedLine) Units() int         { return l.quantity }
func (l TimedLine) RateCents() int64   { return l.rateCents }
func (l TimedLine) DurationHours() int { return l.durationHours }

type ProductLine struct {
	unitPriceCents int64
	quantity       int
}

func NewProductLine(unitPriceCents int64, quantity int) (ProductLine, error) {
	if quantity < 1 {
		return ProductLine{}, ErrInvalidLineQuantity
	}
	if unitPriceCents < 0 {
		return ProductLine{}, ErrNegativeMoney
	}
	return ProductLine{unitPriceCents: unitPriceCents, quantity: quantity}, nil
}

func (l ProductLine) TotalCents() int64 {
	return l.unitPriceCents * int64(l.quantity)
}

func (l ProductLine) Units() int { return l.quantity }

// Cart aggregates lines for coupon evaluation. Item count is the sum of
// units, matching what coupon minimum_items is checked against.
type Cart struct {
	lines []Line
}

func NewCart(lines ...Line) Cart {
	return Cart{lines: lines}
}

func (c Cart) SubtotalCents() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.TotalCents()
	}
	return total
}

func (c Cart) ItemCount() int {
	var count int
	for _, l := range c.lines {
		count += l.Units()
	}
	return count
}

func (c Cart) Lines() []Line {
	return c.lines
}
