// Package common holds the aggregates shared by every message set: status,
// transaction wrappers, statement ranges and transactions, balances and
// account details, plus the message set ordering used by envelopes.
//
// Types register themselves on schema.Default at init. Register does the
// same for another registry.
package common
