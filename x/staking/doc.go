/*
Package staking implements the stake ledger and the selection of the
active validator set.

An account becomes a validator by registering an amount of stake. Any
other account can delegate stake to a registered validator once in its
lifetime. Both operations only check that the caller balance covers the
amount at the time of the call. Funds are not locked.

At every era boundary, that is every block whose height is a multiple of
the configured era duration, all validators are ranked by their total
stake and the best ones become the active validator set. Validators with
an equal total stake are ordered by their address.
*/
package staking
