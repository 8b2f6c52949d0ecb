package settlement

import (
	"context"
	"fmt"
)

// PayBalance distributes a payment across the person's open expense shares
// in the order the store returns them, oldest first. Each share with
// outstanding debt absorbs min(remaining, debt) as a credit; settled shares
// are skipped. What happens to any excess depends on the configured
// OverpaymentPolicy. The people list is refreshed afterwards so balances
// reflect the new credits.
func (e *Engine) PayBalance(ctx context.Context, personID string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	shares, err := e.store.ListPersonShares(ctx, personID)
	if err != nil {
		return fmt.Errorf("failed to list shares: %w", err)
	}

	if e.overpayment == RejectOverpayment {
		var owed float64
		for _, sh := range shares {
			if d := sh.Debt(); d > 0 {
				owed += d
			}
		}
		if amount > owed {
			return ErrOverpayment
		}
	}

	remaining := amount
	for _, sh := range shares {
		if remaining <= 0 {
			break
		}
		debt := sh.Debt()
		if debt <= 0 {
			continue
		}
		pay := remaining
		if debt < pay {
			pay = debt
		}
		if err := e.store.AddShareCredit(ctx, sh.ExpenseID, personID, pay); err != nil {
			return fmt.Errorf("failed to credit share: %w", err)
		}
		remaining -= pay
	}
	// Leftover under the discard policy is absorbed here, not refunded.

	return e.refreshPeople(ctx)
}
