// Package models defines the core domain entities for the shared-expense
// ledger.
//
// # Entities
//
//   - Person: a member of the group with accumulated credit/debit balances
//   - Expense: a shared expense, split evenly among its participants
//   - Share: one participant's credit/debit record scoped to a single expense
//   - Group: the in-memory collections of people and expenses for one ledger
//
// # Balance arithmetic
//
// A person's balance is credit_balance - debit_balance: positive means the
// group owes them money, negative means they owe the group. Balances are
// accumulators derived from the person's shares across all expenses; the
// ledger store is responsible for keeping them in sync, this package only
// does the arithmetic.
//
// A person with |balance| below SettledTolerance is considered settled.
// That tolerance exists purely to absorb floating point noise from repeated
// share arithmetic; Balance itself applies no rounding so that callers can
// decide their own cutoff.
//
// # Wire mapping
//
// The DTO types in wire.go mirror the ledger store's JSON representation.
// Conversion is pure data mapping: missing balance fields default to 0.0 and
// a missing participant count defaults to 1, and no conversion ever fails.
package models
