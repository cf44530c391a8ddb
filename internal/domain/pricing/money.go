package pricing

import "errors"

var ErrNegativeMoney = errors.New("money cannot be negative")

// Money is an amount in integer cents. All pricing arithmetic stays in
// cents; conversion to display units happens at the edge.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeMoney
	}
	return Money{cents: cents}, nil
}

// MustMoney panics on negative cents; for literals in tests and constants.
func MustMoney(cents int64) Money {
	m, err := NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Sub floors at zero; amounts never go negative.
func (m Money) Sub(other Money) Money {
	remaining := m.cents - other.cents
	if remaining < 0 {
		remaining = 0
	}
	return Money{cents: remaining}
}

func (m Money) Mul(factor int64) Money {
	return Money{cents: m.cents * factor}
}

func (m Money) IsZero() bool {
	return m.cents == 0
}
