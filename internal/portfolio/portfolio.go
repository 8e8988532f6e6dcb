package portfolio

import (
	"fmt"
	"time"
)

// Action is a trading decision.
type Action uint8

const (
	Buy Action = iota
	Sell
	Hold
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	case Hold:
		return "HOLD"
	default:
		return "UNKNOWN"
	}
}

// Trade is one executed decision, including holds (recorded with quantity 0).
type Trade struct {
	Action   Action
	Quantity int
	Price    float64
	Date     time.Time
}

// NegativeQuantityError is returned when a trade carries a negative quantity.
type NegativeQuantityError struct {
	Quantity int
}

func (e *NegativeQuantityError) Error() string {
	return fmt.Sprintf("negative quantity: %d", e.Quantity)
}

// InsufficientFundsError is returned when a buy costs more than available cash.
type InsufficientFundsError struct {
	Needed    float64
	Available float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %.2f, have %.2f", e.Needed, e.Available)
}

// InsufficientPositionError is returned when a sell exceeds the held position.
type InsufficientPositionError struct {
	Requested int
	Held      int
}

func (e *InsufficientPositionError) Error() string {
	return fmt.Sprintf("insufficient position: sell %d, hold %d", e.Requested, e.Held)
}

// Ledger tracks one player's cash, share position and trade log. Mutated only
// through Execute; cash and position never go negative.
type Ledger struct {
	cash        float64
	position    int
	initialCash float64
	trades      []Trade
}

// NewLedger creates a ledger with the given starting cash.
func NewLedger(startingCash float64) *Ledger {
	return &Ledger{cash: startingCash, initialCash: startingCash}
}

// Execute applies one trading decision at the given price and date.
// A negative quantity fails with *NegativeQuantityError for every action.
// Buys fail with *InsufficientFundsError when quantity×price exceeds cash
// (no partial fill); sells fail with *InsufficientPositionError when quantity
// exceeds the position. Holds force quantity to 0 and always succeed. On
// failure the ledger is left untouched; on success exactly one Trade is
// appended to the log.
func (l *Ledger) Execute(action Action, quantity int, price float64, date time.Time) error {
	if quantity < 0 {
		return &NegativeQuantityError{Quantity: quantity}
	}
	switch action {
	case Buy:
		cost := float64(quantity) * price
		if cost > l.cash {
			return &InsufficientFundsError{Needed: cost, Available: l.cash}
		}
		l.cash -= cost
		l.position += quantity
	case Sell:
		if quantity > l.position {
			return &InsufficientPositionError{Requested: quantity, Held: l.position}
		}
		l.cash += float64(quantity) * price
		l.position -= quantity
	case Hold:
		quantity = 0
	default:
		return fmt.Errorf("unknown action %d", action)
	}

	l.trades = append(l.trades, Trade{
		Action:   action,
		Quantity: quantity,
		Price:    price,
		Date:     date,
	})
	return nil
}

// Cash returns the available cash.
func (l *Ledger) Cash() float64 { return l.cash }

// Position returns the number of shares held.
func (l *Ledger) Position() int { return l.position }

// InitialCash returns the starting cash, fixed at creation.
func (l *Ledger) InitialCash() float64 { return l.initialCash }

// Value returns the portfolio value at the given price: cash plus the
// position marked to market.
func (l *Ledger) Value(price float64) float64 {
	return l.cash + float64(l.position)*price
}

// Trades returns a copy of the trade log in execution order.
func (l *Ledger) Trades() []Trade {
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}
