package ledger

import "github.com/shopspring/decimal"

// Share returns the portion of a shared cost borne by each of n participants.
// With no participants there is nothing to attribute: the cost still hits the
// project balance, but no member total moves. Division remainders are
// accepted as-is and not redistributed.
func Share(amount decimal.Decimal, participants int) decimal.Decimal {
	if participants <= 0 {
		return decimal.Zero
	}
	return amount.Div(decimal.NewFromInt(int64(participants)))
}
