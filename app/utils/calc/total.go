package calc

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits stored for every amount.
const MoneyScale = 2

var ErrInvalidLine = errors.New("invalid order line")

type Line struct {
	Price    decimal.Decimal
	Quantity int
}

func LineCost(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// ComputeTotal sums price x quantity over lines in input order.
func ComputeTotal(lines []Line) (decimal.Decimal, error) {
	total := decimal.Zero
	for i, line := range lines {
		if line.Quantity < 1 {
			return decimal.Zero, fmt.Errorf("%w: line %d has quantity %d", ErrInvalidLine, i, line.Quantity)
		}
		if !line.Price.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: line %d has price %s", ErrInvalidLine, i, line.Price.String())
		}
		total = total.Add(LineCost(line.Price, line.Quantity))
	}
	return RoundMoney(total), nil
}

func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyScale)
}
