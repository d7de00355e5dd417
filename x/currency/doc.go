/*
Package currency implements a minimal balance ledger.

Every account holds a single unsigned balance. Balances are created by
minting and moved between accounts by transfers. The total issuance is
tracked separately and is always equal to the sum of all balances.

An account that never received any funds has no entry. This is different
from an account with a zero balance: an empty account can receive funds but
cannot send any.
*/
package currency
