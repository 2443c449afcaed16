// Package models defines the core domain models for the household ledger.
//
// # Models
//
//   - Group: a set of users sharing expenses and one settlement cycle
//   - User: a group member; the active members form the share denominator
//   - Expense: one recorded entry, either shared or personal
//   - PeriodState: per group+month+year confirmation and payment lifecycle
//   - Plan / Installment: amortization of an agreed debt into dated payments
//   - MonthlySummary: derived per-period aggregation, never persisted
//
// # Design Principles
//
//  1. IDs are UUID strings; relationships use ID strings instead of pointers
//     to avoid circular references.
//  2. Timestamps are Unix seconds (int64); zero means "not set".
//  3. Amounts are euros as float64, rounded to 2 decimals wherever a figure
//     is persisted or compared; comparisons use a 0.01 epsilon.
//  4. Derived data (MonthlySummary, overdue flags, days remaining) is computed
//     on demand and never written back.
package models
