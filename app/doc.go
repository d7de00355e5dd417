/*
Package app contains the host of the ledger: it routes messages to the
handlers, isolates every call in a savepoint, runs the tickers at the
beginning of every block and loads the genesis.

Errors returned from InitChain and BeginBlock cannot be handled by the
caller in any meaningful way. Both methods panic instead.
*/
package app
