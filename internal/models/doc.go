// Package models defines the core domain models for the splitsmart ledger.
//
// # Ledger Models
//
//   - User: a registered account, referenced (never owned) by groups, expenses and payments
//   - Group: a named set of members owning its expenses and payments
//   - Expense: a purchase paid by one member and split across members
//   - ExpenseSplit: one member's share of an expense
//   - Payment: a settlement transfer between two members of a group
//   - MemberBalance: a member's net position derived from the full group history
//
// # Design Principles
//
// 1. **Append-only history**: expenses and payments are immutable once written
// 2. **Derived balances**: balances are recomputed from history, never stored
// 3. **Exact money**: amounts are decimals normalized to cents; no float accumulation
// 4. **IDs, not pointers**: relationships are expressed with store-assigned int64 IDs
package models
