// Package ledger owns the in-memory transaction list and every view derived
// from it: recurring instances, the sorted/filtered view and the summaries.
package ledger
