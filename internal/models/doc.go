// Package models defines the core domain models for Splitbook.
//
// # Models
//
//   - Transaction: a monetary event (income or expense), optionally owned by
//     a group, with an ordered participant list for expense splitting
//   - Split: one participant's share of an expense transaction, derived from
//     the transaction and regenerated as a unit whenever the transaction's
//     amount or participant set changes
//   - Settlement: a direct payment between two group members, recorded
//     outside any transaction
//   - Group: a set of users who share transactions
//   - User: a registered account
//
// # Design Principles
//
//  1. Exact money: all amounts are shopspring decimals; the splits of an
//     expense always sum to the transaction amount to the cent
//  2. Splits are derived: Split rows have no independent lifecycle; the
//     transaction row is the single source of truth for the amount
//  3. Opaque currency: a mandatory 3-letter code travels with every amount
//     and is never converted or defaulted
//  4. Avoid circular references: relationships use ID strings, not pointers
package models
